package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/spf13/viper"
)

const (
	// DefaultSeedURL 爬取入口
	DefaultSeedURL = "https://www.cpp.edu/sci/computer-science/"
	// DefaultScope 站内URL必须包含的片段
	DefaultScope = "cpp.edu/sci/computer-science"
	// DefaultTargetSelector 目标页标题选择器
	DefaultTargetSelector = "h1.cpp-h1"
	// DefaultTargetMarker 目标页标题中必须出现的文字
	DefaultTargetMarker = "Permanent Faculty"
	// DefaultHeadingTag 教师信息分段标题标签
	DefaultHeadingTag = "h2"
)

// DefaultExtensions 允许跟随的页面后缀
var DefaultExtensions = []string{".html", ".shtml"}

// Config 应用程序配置
type Config struct {
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Target  TargetConfig  `mapstructure:"target"`
	Extract ExtractConfig `mapstructure:"extract"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Storage StorageConfig `mapstructure:"storage"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`

	// 实际使用的配置文件, 使用默认值时为空
	file string
}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	SeedURL    string   `mapstructure:"seed_url"`
	Scope      string   `mapstructure:"scope"`
	Extensions []string `mapstructure:"extensions"`
	Timeout    int      `mapstructure:"timeout"` // 单次抓取超时(秒)
}

// RequestTimeout 单次抓取超时
func (c CrawlConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TargetConfig 目标页识别配置
type TargetConfig struct {
	Selector string `mapstructure:"selector"`
	Marker   string `mapstructure:"marker"`
}

// ExtractConfig 记录提取配置
type ExtractConfig struct {
	HeadingTag string `mapstructure:"heading_tag"`
}

// FetchConfig 抓取配置
type FetchConfig struct {
	// Headers 覆盖默认请求头, 如 User-Agent
	Headers map[string]string `mapstructure:"headers"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	DBDir string `mapstructure:"db_dir"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir  string `mapstructure:"base_dir"`
	Progress bool   `mapstructure:"progress"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// configPath为空时在默认位置搜索config.yaml, 找不到则全部使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".facultycrawl"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.ConfigError{FilePath: configPath, Cause: fmt.Errorf("读取配置文件失败: %w", err)}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: fmt.Errorf("解析配置文件失败: %w", err)}
	}
	config.file = v.ConfigFileUsed()

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.seed_url", DefaultSeedURL)
	v.SetDefault("crawl.scope", DefaultScope)
	v.SetDefault("crawl.extensions", DefaultExtensions)
	v.SetDefault("crawl.timeout", 30)

	v.SetDefault("target.selector", DefaultTargetSelector)
	v.SetDefault("target.marker", DefaultTargetMarker)

	v.SetDefault("extract.heading_tag", DefaultHeadingTag)

	v.SetDefault("storage.db_dir", "data")

	v.SetDefault("output.base_dir", "output")
	v.SetDefault("output.progress", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// File 返回实际加载的配置文件路径
func (c *Config) File() string {
	return c.file
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := models.ValidateURL(c.Crawl.SeedURL); err != nil {
		return c.invalid(fmt.Errorf("crawl.seed_url 无效: %w", err))
	}
	if strings.TrimSpace(c.Crawl.Scope) == "" {
		return c.invalid(fmt.Errorf("crawl.scope 不能为空"))
	}
	if !strings.Contains(c.Crawl.SeedURL, c.Crawl.Scope) {
		return c.invalid(fmt.Errorf("crawl.seed_url 不在爬取范围 %q 内", c.Crawl.Scope))
	}
	if len(c.Crawl.Extensions) == 0 {
		return c.invalid(fmt.Errorf("crawl.extensions 不能为空"))
	}
	for _, ext := range c.Crawl.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return c.invalid(fmt.Errorf("crawl.extensions 中的 %q 必须以 '.' 开头", ext))
		}
	}
	if c.Crawl.Timeout < 1 || c.Crawl.Timeout > 300 {
		return c.invalid(fmt.Errorf("crawl.timeout 必须在1-300秒之间,当前值: %d", c.Crawl.Timeout))
	}
	if c.Target.Selector == "" || c.Target.Marker == "" {
		return c.invalid(fmt.Errorf("target.selector 和 target.marker 不能为空"))
	}
	if c.Extract.HeadingTag == "" {
		return c.invalid(fmt.Errorf("extract.heading_tag 不能为空"))
	}
	if c.Storage.DBDir == "" {
		return c.invalid(fmt.Errorf("storage.db_dir 不能为空"))
	}
	return nil
}

func (c *Config) invalid(err error) error {
	return &models.ConfigError{FilePath: c.file, Cause: err}
}
