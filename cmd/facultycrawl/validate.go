package main

import (
	"fmt"
	"io"
	"os"

	"github.com/RecoveryAshes/FacultyCrawl/internal/core"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证配置文件和HTTP头部",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(appConfig, os.Stdout)
	},
}

// runValidate 验证配置并输出脱敏后的有效头部
func runValidate(cfg *core.Config, stdout io.Writer) error {
	utils.Info("🔍 验证配置...")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	headerManager := core.NewHeaderManager(cfg.Fetch.Headers)
	if err := headerManager.Validate(); err != nil {
		return fmt.Errorf("HTTP头部验证失败: %w", err)
	}

	source := cfg.File()
	if source == "" {
		source = "(默认配置)"
	}

	fmt.Fprintln(stdout, "✅ 配置验证通过!")
	fmt.Fprintf(stdout, "配置文件: %s\n", source)
	fmt.Fprintf(stdout, "种子URL: %s\n", cfg.Crawl.SeedURL)
	fmt.Fprintf(stdout, "爬取范围: %s %v\n", cfg.Crawl.Scope, cfg.Crawl.Extensions)
	fmt.Fprintf(stdout, "目标页: %s 包含 %q\n", cfg.Target.Selector, cfg.Target.Marker)

	fmt.Fprintf(stdout, "当前有效的HTTP头部 (%d个): %s\n",
		len(headerManager.GetMergedHeaders()), headerManager.SafeHeaderString())
	return nil
}
