package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/FacultyCrawl/internal/core"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 全局参数
var (
	configFile string
	verbose    bool
	logLevel   string
)

// appConfig 在PersistentPreRunE中加载, 供子命令使用
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "facultycrawl",
	Short: "院系网站教师信息爬取工具",
	Long: `FacultyCrawl - 院系网站教师目录爬取与解析工具

工作流程:
  1. crawl    从种子URL广度优先爬取站内页面, 全部存入SQLite,
              找到教师目录页(h1.cpp-h1 包含 "Permanent Faculty")后停止
  2. extract  从已标记的目标页解析教师记录(姓名/职称/办公室/电话/邮箱/主页)

配置文件 (configs/config.yaml) 示例:
  crawl:
    seed_url: https://www.cpp.edu/sci/computer-science/
    scope: cpp.edu/sci/computer-science

  facultycrawl crawl
  facultycrawl extract
  facultycrawl validate -c configs/config.yaml

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = config

		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if verbose {
			logConfig.Level = "debug"
		}
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if config.File() != "" {
			utils.Debugf("使用配置文件: %s", config.File())
		} else {
			utils.Debugf("未找到配置文件, 使用默认配置")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 不需要加载配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FacultyCrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
