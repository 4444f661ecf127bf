package core

import (
	"strings"
	"testing"
)

func TestHeaderManager_GetMergedHeaders(t *testing.T) {
	t.Run("默认头部存在", func(t *testing.T) {
		hm := NewHeaderManager(nil)

		headers := hm.GetMergedHeaders()
		if ua := headers.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("期望默认User-Agent, 实际='%s'", ua)
		}
		if headers.Get("Accept-Encoding") == "" {
			t.Error("期望默认Accept-Encoding存在")
		}
	})

	t.Run("配置头部覆盖默认", func(t *testing.T) {
		// viper会把map键转成小写
		hm := NewHeaderManager(map[string]string{
			"user-agent": "CustomBot/1.0",
			"x-custom":   "value1",
		})

		headers := hm.GetMergedHeaders()
		if ua := headers.Get("User-Agent"); ua != "CustomBot/1.0" {
			t.Errorf("期望User-Agent='CustomBot/1.0', 实际='%s'", ua)
		}
		if headers.Get("X-Custom") != "value1" {
			t.Error("X-Custom未正确设置")
		}
	})
}

func TestHeaderManager_GetHeaders(t *testing.T) {
	tests := []struct {
		name        string
		headers     map[string]string
		expectError bool
	}{
		{"仅默认头部", nil, false},
		{"合法自定义头部", map[string]string{"accept-language": "zh-CN"}, false},
		{"禁止的Host头部", map[string]string{"host": "example.com"}, true},
		{"空User-Agent", map[string]string{"user-agent": ""}, true},
		{"非法头部值", map[string]string{"x-bad": "a\x00b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := NewHeaderManager(tt.headers)
			headers, err := hm.GetHeaders()
			if (err != nil) != tt.expectError {
				t.Fatalf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
			if err == nil && headers.Get("User-Agent") == "" {
				t.Error("合并后的头部应包含User-Agent")
			}
		})
	}
}

func TestHeaderManager_SafeHeaderString(t *testing.T) {
	hm := NewHeaderManager(map[string]string{
		"cookie":        "sessionid=abcdef123456",
		"authorization": "Bearer secret-token",
	})

	got := hm.SafeHeaderString()
	if strings.Contains(got, "abcdef123456") || strings.Contains(got, "secret-token") {
		t.Errorf("敏感头部未脱敏: %s", got)
	}
	if !strings.Contains(got, "Authorization: Bearer ***") {
		t.Errorf("Authorization脱敏格式错误: %s", got)
	}
	if !strings.HasSuffix(got, "User-Agent: "+DefaultUserAgent) {
		t.Errorf("User-Agent不应被脱敏且按名称排在最后: %s", got)
	}
	if !strings.HasPrefix(got, "Accept: ") {
		t.Errorf("头部应按名称排序: %s", got)
	}
}
