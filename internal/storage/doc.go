// Package storage 提供基于SQLite的页面与教师记录持久化
//
// pages表保存每个成功抓取的页面, 同一次爬取中URL由Frontier去重,
// 存储层本身不做唯一性约束; 新一轮爬取开始前调用ResetPages清空。
// faculty表保存从目标页提取出的教师记录, 每次提取前整体重建。
package storage
