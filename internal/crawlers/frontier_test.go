package crawlers

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestFrontier_FIFO(t *testing.T) {
	f := NewFrontier("https://x.edu/a.html")
	f.AddURL("https://x.edu/b.html")
	f.AddURL("https://x.edu/c.html")

	for _, want := range []string{"https://x.edu/a.html", "https://x.edu/b.html", "https://x.edu/c.html"} {
		got, ok := f.NextURL()
		if !ok || got != want {
			t.Fatalf("NextURL() = %q, %v; want %q", got, ok, want)
		}
	}

	if !f.IsDone() {
		t.Error("取完所有URL后队列应为空")
	}
	if u, ok := f.NextURL(); ok || u != "" {
		t.Errorf("空队列应返回空信号, 得到 %q, %v", u, ok)
	}
}

func TestFrontier_AddURL(t *testing.T) {
	t.Run("已在队列中的URL不重复入队", func(t *testing.T) {
		f := NewFrontier("https://x.edu/a.html")
		if !f.AddURL("https://x.edu/b.html") {
			t.Error("新URL应入队")
		}
		if f.AddURL("https://x.edu/b.html") {
			t.Error("重复URL不应入队")
		}
		if f.AddURL("https://x.edu/a.html") {
			t.Error("种子URL已在队列中, 不应重复入队")
		}
		if f.PendingCount() != 2 {
			t.Errorf("期望2个待处理URL, 得到 %d", f.PendingCount())
		}
	})

	t.Run("已访问的URL不再入队", func(t *testing.T) {
		f := NewFrontier("https://x.edu/a.html")
		f.NextURL()
		if f.AddURL("https://x.edu/a.html") {
			t.Error("已访问URL不应入队")
		}
		if !f.IsDone() {
			t.Error("队列应为空")
		}
	})

	t.Run("精确字符串匹配", func(t *testing.T) {
		f := NewFrontier("https://x.edu/a.html")
		if !f.AddURL("https://x.edu/a.html#top") {
			t.Error("不同字符串视为不同URL")
		}
	})
}

func TestFrontier_Clear(t *testing.T) {
	f := NewFrontier("https://x.edu/a.html")
	f.AddURL("https://x.edu/b.html")
	f.AddURL("https://x.edu/c.html")
	f.NextURL()

	f.Clear()

	if !f.IsDone() {
		t.Error("Clear后IsDone应立即为true")
	}
	if !f.IsVisited("https://x.edu/a.html") || f.VisitedCount() != 1 {
		t.Error("Clear不应影响已访问集合")
	}
	if f.AddURL("https://x.edu/a.html") {
		t.Error("Clear后已访问URL仍不能入队")
	}
	if !f.AddURL("https://x.edu/b.html") {
		t.Error("Clear后被清掉的待处理URL可重新入队")
	}
}

// 随机操作序列下检查两个不变量
func TestFrontier_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := NewFrontier("https://x.edu/0.html")

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0, 1:
			f.AddURL(fmt.Sprintf("https://x.edu/%d.html", rng.Intn(50)))
		case 2:
			f.NextURL()
		}

		seen := make(map[string]bool)
		for _, u := range f.Pending() {
			if f.IsVisited(u) {
				t.Fatalf("第%d步: 待处理队列包含已访问URL %s", i, u)
			}
			if seen[u] {
				t.Fatalf("第%d步: 待处理队列包含重复URL %s", i, u)
			}
			seen[u] = true
		}
	}
}
