package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/RecoveryAshes/FacultyCrawl/internal/models"
)

func TestHeaderValidator_ValidateName(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerName  string
		expectError bool
	}{
		{"合法名称-字母", "User-Agent", false},
		{"合法名称-数字", "X-Request-ID-123", false},
		{"非法名称-空格", "User Agent", true},
		{"非法名称-下划线", "User_Agent", true},
		{"非法名称-空字符串", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateName(tt.headerName)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_ValidateValue(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerValue string
		expectError bool
	}{
		{"合法值-浏览器UA", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", false},
		{"合法值-空字符串", "", false},
		{"非法值-超长", string(make([]byte, MaxHeaderValueLength+1)), true},
		{"非法值-控制字符", "value\x00with\x01null", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateValue("X-Test", tt.headerValue)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_Validate(t *testing.T) {
	validator := NewHeaderValidator()

	t.Run("禁止头部", func(t *testing.T) {
		h := http.Header{"Host": []string{"example.com"}}
		err := validator.Validate(h)

		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("期望ValidationError, 得到 %v", err)
		}
		if verr.HeaderName != "Host" {
			t.Errorf("期望HeaderName=Host, 得到 %s", verr.HeaderName)
		}
	})

	t.Run("合法头部集合", func(t *testing.T) {
		h := http.Header{}
		h.Set("User-Agent", "Mozilla/5.0")
		h.Set("Accept", "text/html")
		if err := validator.Validate(h); err != nil {
			t.Errorf("不应报错: %v", err)
		}
	})
}

func TestHeaderValidator_RequireUserAgent(t *testing.T) {
	validator := NewHeaderValidator()

	if err := validator.RequireUserAgent(http.Header{}); err == nil {
		t.Error("缺少User-Agent时应报错")
	}
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")
	if err := validator.RequireUserAgent(h); err != nil {
		t.Errorf("存在User-Agent时不应报错: %v", err)
	}
}

func TestHeaderRedactor(t *testing.T) {
	redactor := NewHeaderRedactor()

	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")
	h.Set("Authorization", "Bearer secret-token-12345")
	h.Set("Cookie", "sessionid=abcdef123456")
	h.Set("X-Api-Key", "short")

	safe := redactor.Redact(h)
	if safe["User-Agent"] != "Mozilla/5.0" {
		t.Errorf("非敏感头部不应脱敏: %s", safe["User-Agent"])
	}
	if safe["Authorization"] != "Bearer ***" {
		t.Errorf("Bearer令牌应脱敏, 得到 %s", safe["Authorization"])
	}
	if safe["Cookie"] != "sess***3456" {
		t.Errorf("长值应保留首尾4位, 得到 %s", safe["Cookie"])
	}
	if safe["X-Api-Key"] != "***" {
		t.Errorf("短值应完全隐藏, 得到 %s", safe["X-Api-Key"])
	}

	want := "Authorization: Bearer ***, Cookie: sess***3456, User-Agent: Mozilla/5.0, X-Api-Key: ***"
	if got := redactor.RedactToString(h); got != want {
		t.Errorf("RedactToString() = %q, want %q", got, want)
	}
}
