// Package crawlers 实现院系网站的顺序广度优先爬取
//
// # 核心组件
//
// ## Frontier (URL队列)
//
// FIFO待爬队列 + 已访问集合。入队时同时检查已访问和待处理,
// 保证同一URL只会被抓取一次。命中目标页后调用Clear()清空待处理队列。
//
//	f := NewFrontier("https://www.cpp.edu/sci/computer-science/")
//	u, ok := f.NextURL()
//	f.AddURL("https://www.cpp.edu/sci/computer-science/faculty.shtml")
//
// ## StaticFetcher (抓取器)
//
// 基于Colly的同步抓取器。使用系统根证书校验HTTPS,
// 发送浏览器请求头, 按Content-Encoding解压(gzip/deflate/br)。
// 所有失败都以error返回, 包括空响应(ErrEmptyBody)和非UTF-8内容。
//
//	fetcher, err := NewStaticFetcher(30*time.Second, headerManager)
//	html, err := fetcher.Fetch(ctx, url)
//
// ## LinkExtractor (链接提取器)
//
// 用goquery提取a[href], 基于当前页URL解析为绝对地址,
// 只保留扩展名匹配(.html/.shtml)且包含站点范围子串的链接。
//
// ## TargetClassifier (目标页识别)
//
// 取第一个匹配选择器(默认h1.cpp-h1)的元素, 文本包含标记
// (默认"Permanent Faculty")即为目标页。
//
// ## Engine (爬取引擎)
//
// 单线程循环: 取URL → 抓取 → 存储 → 识别 → 入队。
// 抓取和存储失败只记录日志并继续; 找到目标页后停止。
//
//	e := NewEngine(seed, fetcher, links, classifier, db, WithOutput(os.Stdout))
//	stats := e.Run(ctx)
//
// # 并发安全
//
// Frontier内部加锁, 其余组件无共享可变状态。Engine本身不并发抓取。
package crawlers
