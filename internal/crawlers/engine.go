package crawlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/rs/zerolog"
)

// PageStore 爬取过程需要的存储操作
type PageStore interface {
	InsertPage(ctx context.Context, page *models.Page) error
	SetTargetFlag(ctx context.Context, url string) error
}

// Progress 进度回调, 每处理完一个URL调用一次
type Progress interface {
	Add(num int) error
}

// Engine 顺序爬取引擎
// 从Frontier取URL → 抓取 → 存储 → 识别目标页;
// 命中目标页后清空Frontier, 否则把站内链接按文档顺序入队
type Engine struct {
	frontier   *Frontier
	fetcher    Fetcher
	links      *LinkExtractor
	classifier *TargetClassifier
	store      PageStore

	out      io.Writer
	progress Progress
	runID    string
	seed     string
	logger   zerolog.Logger
}

// Option 引擎选项
type Option func(e *Engine)

// WithOutput 进度行的输出位置, 默认丢弃
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithProgress 设置进度回调
func WithProgress(p Progress) Option {
	return func(e *Engine) {
		e.progress = p
	}
}

// WithRunID 指定运行ID, 默认随机生成
func WithRunID(id string) Option {
	return func(e *Engine) {
		e.runID = id
	}
}

// NewEngine 以种子URL创建引擎
func NewEngine(seed string, fetcher Fetcher, links *LinkExtractor, classifier *TargetClassifier, store PageStore, opts ...Option) *Engine {
	e := &Engine{
		frontier:   NewFrontier(seed),
		fetcher:    fetcher,
		links:      links,
		classifier: classifier,
		store:      store,
		out:        io.Discard,
		seed:       seed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = models.NewRunID()
	}
	e.logger = utils.Logger.With().Str("run_id", e.runID).Logger()
	return e
}

// Frontier 返回引擎使用的队列
func (e *Engine) Frontier() *Frontier {
	return e.frontier
}

// RunID 返回本次运行ID
func (e *Engine) RunID() string {
	return e.runID
}

// Run 执行爬取直到队列为空或ctx被取消
// 抓取和存储错误只记录日志, 不会中断爬取
func (e *Engine) Run(ctx context.Context) models.CrawlStats {
	startTime := time.Now()
	stats := models.CrawlStats{RunID: e.runID, SeedURL: e.seed}

	e.logger.Info().Str("seed", e.seed).Msg("开始爬取")

	for !e.frontier.IsDone() {
		if err := ctx.Err(); err != nil {
			e.logger.Warn().Err(err).Int("pending", e.frontier.PendingCount()).Msg("爬取被中断")
			break
		}

		pageURL, ok := e.frontier.NextURL()
		if !ok {
			continue
		}
		stats.VisitedURLs++
		e.crawlPage(ctx, pageURL, &stats)

		if e.progress != nil {
			_ = e.progress.Add(1)
		}
	}

	stats.Duration = time.Since(startTime).Seconds()

	e.logger.Info().
		Int("visited", stats.VisitedURLs).
		Int("stored", stats.StoredPages).
		Int("failed", stats.FailedURLs).
		Str("target", stats.TargetURL).
		Float64("duration", stats.Duration).
		Msg("爬取结束")

	return stats
}

// crawlPage 处理单个URL
func (e *Engine) crawlPage(ctx context.Context, pageURL string, stats *models.CrawlStats) {
	fmt.Fprintf(e.out, "Crawling: %s\n", pageURL)

	document, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		e.logger.Error().Err(err).Str("url", pageURL).Msg("抓取页面失败")
		stats.FailedURLs++
		return
	}

	page := &models.Page{
		URL:       pageURL,
		HTML:      document,
		RunID:     e.runID,
		FetchedAt: time.Now(),
	}
	if err := e.store.InsertPage(ctx, page); err != nil {
		e.logger.Error().Err(err).Str("url", pageURL).Msg("存储页面失败")
		stats.StoreErrors++
	} else {
		stats.StoredPages++
	}

	if e.classifier.IsTarget(document) {
		fmt.Fprintf(e.out, "Found target page: %s\n", pageURL)
		if err := e.store.SetTargetFlag(ctx, pageURL); err != nil {
			e.logger.Error().Err(err).Str("url", pageURL).Msg("标记目标页失败")
		}
		stats.TargetURL = pageURL
		e.frontier.Clear()
		return
	}

	links, err := e.links.ExtractLinks(document, pageURL)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", pageURL).Msg("提取链接失败")
	}
	for _, link := range links {
		if e.frontier.AddURL(link) {
			stats.Enqueued++
		}
	}
	e.logger.Debug().
		Str("url", pageURL).
		Int("links", len(links)).
		Int("pending", e.frontier.PendingCount()).
		Msg("页面处理完成")
}
