package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
	"github.com/RecoveryAshes/FacultyCrawl/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// ErrEmptyBody 响应成功但没有内容
var ErrEmptyBody = errors.New("响应内容为空")

// ErrInvalidEncoding 响应内容不是合法的UTF-8文本
var ErrInvalidEncoding = errors.New("响应内容不是合法的UTF-8")

const bodyCtxKey = "body"

// Fetcher 抓取单个URL的文档内容
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// StaticFetcher 基于Colly的同步抓取器
// 每次只有一个请求在进行, 请求失败以错误值返回, 不会中断调用方
type StaticFetcher struct {
	collector      *colly.Collector
	headerProvider models.HeaderProvider
}

// FetcherOption 抓取器选项
type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	client *http.Client
}

// WithHTTPClient 使用自定义HTTP客户端 (如测试服务器的证书)
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(o *fetcherOptions) {
		o.client = client
	}
}

// NewStaticFetcher 创建抓取器
// 默认使用系统根证书池校验证书链
func NewStaticFetcher(timeout time.Duration, headerProvider models.HeaderProvider, opts ...FetcherOption) (*StaticFetcher, error) {
	var o fetcherOptions
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.client
	if httpClient == nil {
		roots, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("加载系统根证书失败: %w", err)
		}
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					RootCAs:    roots,
					MinVersion: tls.VersionTLS12,
				},
			},
		}
	}

	// 去重由Frontier负责, Colly内部的访问记录必须关闭
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	c.SetClient(httpClient)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	f := &StaticFetcher{
		collector:      c,
		headerProvider: headerProvider,
	}
	f.setupCallbacks()

	return f, nil
}

// setupCallbacks 设置Colly回调
func (f *StaticFetcher) setupCallbacks() {
	f.collector.OnResponse(func(r *colly.Response) {
		body := r.Body
		if enc := r.Headers.Get("Content-Encoding"); enc != "" {
			decompressed, err := decompressResponse(enc, r.Body)
			if err != nil {
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, enc, err)
			} else {
				body = decompressed
			}
		}
		r.Ctx.Put(bodyCtxKey, string(body))
	})

	f.collector.OnError(func(r *colly.Response, err error) {
		utils.Logger.Debug().
			Err(err).
			Str("url", r.Request.URL.String()).
			Int("status", r.StatusCode).
			Msg("抓取错误")
	})
}

// Fetch 抓取URL并返回UTF-8文本
// ctx取消后立即返回ctx的错误, 不等待请求超时
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var hdr http.Header
	if f.headerProvider != nil {
		headers, err := f.headerProvider.GetHeaders()
		if err != nil {
			return "", fmt.Errorf("获取HTTP头部失败: %w", err)
		}
		hdr = headers.Clone()
	}

	// Colly的Request不接收context, 放到goroutine里以便中断时立即返回;
	// 被放弃的请求最迟在请求超时后结束
	reqCtx := colly.NewContext()
	done := make(chan error, 1)
	go func() {
		done <- f.collector.Request(http.MethodGet, rawURL, nil, reqCtx, hdr)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("抓取 %s 被中断: %w", rawURL, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("抓取 %s 失败: %w", rawURL, err)
		}
	}

	body := reqCtx.Get(bodyCtxKey)
	if body == "" {
		return "", ErrEmptyBody
	}
	if !utf8.ValidString(body) {
		return "", ErrInvalidEncoding
	}
	return body, nil
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli); Colly已解过的gzip内容原样返回
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
