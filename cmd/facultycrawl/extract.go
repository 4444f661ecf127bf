package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RecoveryAshes/FacultyCrawl/internal/core"
	"github.com/RecoveryAshes/FacultyCrawl/internal/extractor"
	"github.com/RecoveryAshes/FacultyCrawl/internal/storage"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "从已找到的教师目录页解析并保存教师信息",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(context.Background(), appConfig, os.Stdout)
	},
}

// runExtract 解析目标页并重建教师记录
// 没有目标页或没有有效记录时只输出提示, 不视为错误
func runExtract(ctx context.Context, cfg *core.Config, stdout io.Writer) error {
	db, err := storage.Open(cfg.Storage.DBDir, storage.DefaultOptions())
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}
	defer db.Close()

	page, err := db.FindTargetPage(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(stdout, "Faculty page not found in database!")
		return nil
	}
	if err != nil {
		return err
	}
	utils.Infof("解析目标页: %s", page.URL)

	records, err := extractor.NewExtractor(cfg.Extract.HeadingTag).Extract(page.HTML)
	if err != nil {
		utils.Warnf("解析目标页失败: %v", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No faculty information found!")
		return nil
	}

	if err := db.ResetRecords(ctx); err != nil {
		return err
	}
	if err := db.InsertRecords(ctx, records); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Successfully stored information for %d professors\n", len(records))

	stored, err := db.ListRecords(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "\nStored faculty information:")
	for _, r := range stored {
		r.Print(stdout)
		fmt.Fprintln(stdout, strings.Repeat("-", 50))
	}

	reportPath, err := utils.NewReporter(cfg.Output.BaseDir).WriteFacultyReport(page.URL, stored)
	if err != nil {
		utils.Warnf("保存教师信息报告失败: %v", err)
	} else {
		utils.Infof("教师信息已导出: %s", reportPath)
	}
	return nil
}
