package crawlers

import (
	"sync"
)

// Frontier 广度优先爬取队列
// 职责: 管理待爬取URL(FIFO)和已访问URL集合
// 不变量: 已访问的URL不会再入队, 待爬队列中没有重复URL
type Frontier struct {
	// 待处理URL队列
	queue []string

	// 待处理URL索引, 用于O(1)去重
	pending map[string]bool

	// 已访问URL集合
	visited map[string]bool

	mu sync.Mutex
}

// NewFrontier 以种子URL创建队列
func NewFrontier(seed string) *Frontier {
	f := &Frontier{
		queue:   make([]string, 0, 64),
		pending: make(map[string]bool),
		visited: make(map[string]bool),
	}
	f.push(seed)
	return f
}

// NextURL 取出最早入队的URL并标记为已访问
// 队列为空时返回 ("", false)
func (f *Frontier) NextURL() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}

	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.pending, u)
	f.visited[u] = true
	return u, true
}

// AddURL 将URL加入队尾
// 已访问或已在队列中的URL被忽略, 返回是否真正入队
func (f *Frontier) AddURL(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visited[u] || f.pending[u] {
		return false
	}
	f.push(u)
	return true
}

func (f *Frontier) push(u string) {
	f.queue = append(f.queue, u)
	f.pending[u] = true
}

// IsDone 队列为空时返回true
func (f *Frontier) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0
}

// Clear 清空待处理队列, 已访问集合保持不变
// 找到目标页后用于强制结束爬取
func (f *Frontier) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queue = f.queue[:0]
	f.pending = make(map[string]bool)
}

// IsVisited 检查URL是否已访问
func (f *Frontier) IsVisited(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[u]
}

// PendingCount 返回待处理URL数量
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// VisitedCount 返回已访问URL数量
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// Pending 返回待处理队列的副本, 按出队顺序排列
func (f *Frontier) Pending() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.queue))
	copy(out, f.queue)
	return out
}
