package crawlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
)

// TargetClassifier 目标页识别器
// 页面中第一个匹配selector的标题包含marker时即为目标页
type TargetClassifier struct {
	selector string
	marker   string
}

// NewTargetClassifier 创建目标页识别器
func NewTargetClassifier(selector, marker string) *TargetClassifier {
	return &TargetClassifier{selector: selector, marker: marker}
}

// IsTarget 判断文档是否为目标页
// 区分大小写, 不做空白规范化
func (c *TargetClassifier) IsTarget(document string) bool {
	if document == "" {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		utils.Logger.Debug().Err(err).Msg("解析HTML失败")
		return false
	}

	heading := doc.Find(c.selector).First()
	if heading.Length() == 0 {
		return false
	}
	return strings.Contains(heading.Text(), c.marker)
}
