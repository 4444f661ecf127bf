package models

import "time"

// Page 已抓取页面
// 每个成功抓取的URL对应一条记录, IsTarget 只会从 false 变为 true 一次
type Page struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	HTML      string    `json:"html"`
	IsTarget  bool      `json:"is_target"`
	RunID     string    `json:"run_id"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CrawlStats 一次爬取运行的统计
type CrawlStats struct {
	RunID       string  `json:"run_id"`
	SeedURL     string  `json:"seed_url"`
	VisitedURLs int     `json:"visited_urls"` // 从队列取出的URL数
	StoredPages int     `json:"stored_pages"` // 成功写入存储的页面数
	FailedURLs  int     `json:"failed_urls"`  // 抓取失败的URL数
	StoreErrors int     `json:"store_errors"` // 写入存储失败次数
	Enqueued    int     `json:"enqueued"`     // 加入队列的新链接数
	TargetURL   string  `json:"target_url"`   // 命中的目标页, 未命中为空
	Duration    float64 `json:"duration"`     // 总耗时(秒)
}

// Found 是否找到了目标页
func (s CrawlStats) Found() bool {
	return s.TargetURL != ""
}
