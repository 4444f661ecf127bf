package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/FacultyCrawl/internal/core"
	"github.com/RecoveryAshes/FacultyCrawl/internal/crawlers"
	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/RecoveryAshes/FacultyCrawl/internal/storage"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "从种子URL爬取站点直到找到教师目录页",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ctrl+C 时停止取新URL, 已抓取的页面保留在数据库中
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runCrawl(ctx, appConfig, os.Stdout, os.Stderr)
	},
}

// runCrawl 执行一次完整爬取
// stdout 输出进度行和统计, stderr 输出进度条
func runCrawl(ctx context.Context, cfg *core.Config, stdout, stderr io.Writer, fetchOpts ...crawlers.FetcherOption) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	headerManager := core.NewHeaderManager(cfg.Fetch.Headers)
	if err := headerManager.Validate(); err != nil {
		return fmt.Errorf("HTTP头部配置无效: %w", err)
	}
	utils.Debugf("请求头部: %s", headerManager.SafeHeaderString())

	fetcher, err := crawlers.NewStaticFetcher(cfg.Crawl.RequestTimeout(), headerManager, fetchOpts...)
	if err != nil {
		return fmt.Errorf("创建抓取器失败: %w", err)
	}

	db, err := storage.Open(cfg.Storage.DBDir, storage.DefaultOptions())
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}
	defer db.Close()

	if err := db.ResetPages(ctx); err != nil {
		return err
	}

	opts := []crawlers.Option{crawlers.WithOutput(stdout)}
	if cfg.Output.Progress {
		bar := utils.NewSpinner(stderr, "爬取中")
		defer func() { _ = bar.Finish() }()
		opts = append(opts, crawlers.WithProgress(bar))
	}

	engine := crawlers.NewEngine(cfg.Crawl.SeedURL,
		fetcher,
		crawlers.NewLinkExtractor(cfg.Crawl.Scope, cfg.Crawl.Extensions),
		crawlers.NewTargetClassifier(cfg.Target.Selector, cfg.Target.Marker),
		db,
		opts...,
	)

	utils.Infof("开始爬取: %s (run_id=%s)", cfg.Crawl.SeedURL, engine.RunID())
	stats := engine.Run(ctx)

	fmt.Fprintln(stdout, "Crawling completed")
	printCrawlStats(stdout, stats)

	reportPath, err := utils.NewReporter(cfg.Output.BaseDir).WriteCrawlReport(stats)
	if err != nil {
		utils.Warnf("保存爬取报告失败: %v", err)
	} else {
		utils.Infof("爬取报告已保存: %s", reportPath)
	}

	if !stats.Found() {
		utils.Warn("未找到教师目录页")
	}
	return ctx.Err()
}

func printCrawlStats(w io.Writer, stats models.CrawlStats) {
	target := stats.TargetURL
	if target == "" {
		target = "(未找到)"
	}
	fmt.Fprintln(w, "\n==================================================")
	fmt.Fprintln(w, "📊 爬取统计")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "✅ 访问URL数: %d\n", stats.VisitedURLs)
	fmt.Fprintf(w, "✅ 存储页面数: %d\n", stats.StoredPages)
	fmt.Fprintf(w, "❌ 失败URL数: %d\n", stats.FailedURLs)
	fmt.Fprintf(w, "🎯 目标页: %s\n", target)
	fmt.Fprintf(w, "⏱️  总耗时: %.2f秒\n", stats.Duration)
	fmt.Fprintln(w, "==================================================")
}
