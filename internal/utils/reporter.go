package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

const (
	// CrawlReportFile 爬取报告文件名
	CrawlReportFile = "crawl_report.json"
	// FacultyReportFile 教师记录导出文件名
	FacultyReportFile = "faculty.json"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// CrawlReport 爬取报告
type CrawlReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Stats       models.CrawlStats `json:"stats"`
}

// FacultyReport 教师记录导出
type FacultyReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	SourceURL   string                 `json:"source_url"`
	Count       int                    `json:"count"`
	Records     []models.FacultyRecord `json:"records"`
}

// WriteCrawlReport 保存爬取统计
func (r *Reporter) WriteCrawlReport(stats models.CrawlStats) (string, error) {
	return r.saveJSONReport(CrawlReportFile, CrawlReport{
		GeneratedAt: time.Now(),
		Stats:       stats,
	})
}

// WriteFacultyReport 保存提取出的教师记录
func (r *Reporter) WriteFacultyReport(sourceURL string, records []models.FacultyRecord) (string, error) {
	return r.saveJSONReport(FacultyReportFile, FacultyReport{
		GeneratedAt: time.Now(),
		SourceURL:   sourceURL,
		Count:       len(records),
		Records:     records,
	})
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(filename string, data interface{}) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	path := filepath.Join(r.outputDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return path, nil
}

// NewSpinner 创建不定长度的进度指示器
// 页面总数未知, 只显示已处理数量和速率
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
