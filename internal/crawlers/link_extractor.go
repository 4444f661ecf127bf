package crawlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
)

// LinkExtractor URL提取器
// 职责: 从页面中提取链接, 转为绝对URL, 只保留站内页面
type LinkExtractor struct {
	// scope 站内URL必须包含的片段
	scope string

	// extensions 允许的页面后缀
	extensions []string
}

// NewLinkExtractor 创建URL提取器实例
func NewLinkExtractor(scope string, extensions []string) *LinkExtractor {
	return &LinkExtractor{
		scope:      scope,
		extensions: extensions,
	}
}

// ExtractLinks 从HTML字符串提取链接
// 返回顺序与文档中出现的顺序一致, 重复链接原样保留由Frontier去重
func (e *LinkExtractor) ExtractLinks(document string, baseURL string) ([]string, error) {
	if document == "" {
		return nil, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("解析baseURL失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")

		linkURL, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			utils.Logger.Debug().Str("href", href).Err(err).Msg("跳过无法解析的链接")
			return
		}

		absoluteURL := base.ResolveReference(linkURL).String()
		if e.ShouldFollowLink(absoluteURL) {
			links = append(links, absoluteURL)
		}
	})

	return links, nil
}

// ShouldFollowLink 判断链接是否应该被跟随
// 以允许的后缀结尾且包含站内片段
func (e *LinkExtractor) ShouldFollowLink(absoluteURL string) bool {
	if !strings.Contains(absoluteURL, e.scope) {
		return false
	}
	for _, ext := range e.extensions {
		if strings.HasSuffix(absoluteURL, ext) {
			return true
		}
	}
	return false
}
