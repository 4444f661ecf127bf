// Package extractor 从教师目录页中解析教师记录
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
)

// ErrEmptyDocument 文档为空
var ErrEmptyDocument = errors.New("文档为空")

// DefaultHeadingTag 每位教师信息块的起始标签
const DefaultHeadingTag = "h2"

// fieldBound 字段标签及其结束标签, 结束标签为空表示取到块末尾
type fieldBound struct {
	label string
	until string
}

// 字段按固定顺序出现, 每个字段的值截止到紧随其后的标签
var (
	titleBound  = fieldBound{"Title:", "Office:"}
	officeBound = fieldBound{"Office:", "Phone:"}
	phoneBound  = fieldBound{"Phone:", "Email:"}
	emailBound  = fieldBound{"Email:", "Web:"}
	webBound    = fieldBound{"Web:", ""}
)

var emailBrackets = strings.NewReplacer("<", "", ">", "")

// Extractor 教师记录提取器
type Extractor struct {
	headingTag string
}

// NewExtractor 创建提取器, headingTag为空时使用h2
func NewExtractor(headingTag string) *Extractor {
	if headingTag == "" {
		headingTag = DefaultHeadingTag
	}
	return &Extractor{headingTag: strings.ToLower(headingTag)}
}

// Extract 按文档顺序提取教师记录
// 每个标题标签开启一个信息块, 块内容为其后的兄弟节点文本,
// 直到下一个标题标签、hr或父节点末尾。缺少姓名或职称的块被丢弃。
func (e *Extractor) Extract(document string) ([]models.FacultyRecord, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	var records []models.FacultyRecord
	doc.Find(e.headingTag).Each(func(_ int, s *goquery.Selection) {
		block := e.collectBlock(s.Nodes[0])
		record := models.FacultyRecord{
			Name:    NormalizeSpace(s.Text()),
			Title:   NormalizeSpace(fieldValue(block, titleBound)),
			Office:  NormalizeSpace(fieldValue(block, officeBound)),
			Phone:   NormalizeSpace(fieldValue(block, phoneBound)),
			Email:   NormalizeSpace(emailBrackets.Replace(fieldValue(block, emailBound))),
			Website: NormalizeSpace(fieldValue(block, webBound)),
		}
		if record.Valid() {
			records = append(records, record)
		}
	})

	return records, nil
}

// collectBlock 拼接标题之后兄弟节点的文本
func (e *Extractor) collectBlock(heading *html.Node) string {
	var parts []string
	e.walkSiblings(heading.NextSibling, &parts)
	return strings.Join(parts, " ")
}

// walkSiblings 从n开始依次收集兄弟节点文本, 遇到标题或hr时返回true
//
// 未知标签(如未转义的 <jdoe@x.edu>)按原文处理: 解析器会把其后的内容
// 都放进这个元素, 所以要继续遍历它的子节点, 块边界也可能在里面。
func (e *Extractor) walkSiblings(n *html.Node, parts *[]string) bool {
	for ; n != nil; n = n.NextSibling {
		var text string
		switch n.Type {
		case html.ElementNode:
			if n.Data == e.headingTag || n.Data == "hr" {
				return true
			}
			if n.DataAtom == 0 {
				*parts = append(*parts, "<"+n.Data+">")
				if e.walkSiblings(n.FirstChild, parts) {
					return true
				}
				continue
			}
			text = nodeText(n)
		case html.TextNode:
			text = n.Data
		default:
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			*parts = append(*parts, text)
		}
	}
	return false
}

// nodeText 元素所有后代文本节点的拼接
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == 0:
			b.WriteString("<" + n.Data + ">")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// fieldValue 取标签之后到结束标签之前的文本, 标签不存在返回空
func fieldValue(block string, f fieldBound) string {
	start := strings.Index(block, f.label)
	if start < 0 {
		return ""
	}
	value := block[start+len(f.label):]
	if f.until != "" {
		if end := strings.Index(value, f.until); end >= 0 {
			value = value[:end]
		}
	}
	return value
}

// NormalizeSpace 去掉首尾空白并把连续空白压缩为一个空格
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
