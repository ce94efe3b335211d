package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"barterhub_go/models"
)

// FetchError 拉取发布列表失败（网络错误或非2xx状态码）。
// 不致命：持有方保留上一份快照，前端提示后可重试。
type FetchError struct {
	StatusCode int // 0 表示传输层错误
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch listings failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch listings failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ListingFetcher 发布列表数据源
type ListingFetcher interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
}

// FallbackSource 次级查找源（快照里找不到时兜底，如演示数据集）。
// 做成可注入的接口，测试和生产可以分别换掉。
type FallbackSource interface {
	Lookup(id string) (*models.Listing, bool)
}

// ListingStore 持有本次会话的发布列表快照。
// 只有 Refresh 会写入快照，多个消费方（搜索页、个人主页、我的发布）只读；
// 快照变化通过订阅通道广播，消费方不直接共享可变状态。
type ListingStore struct {
	mu       sync.RWMutex
	fetcher  ListingFetcher
	fallback FallbackSource

	listings []models.Listing
	loaded   bool

	// 刷新令牌：并发刷新时丢弃过期响应，保证最后发起的刷新生效
	nextToken    uint64
	appliedToken uint64

	subscribers map[int]chan struct{}
	nextSubID   int
}

// NewListingStore 创建发布快照存储
func NewListingStore(fetcher ListingFetcher) *ListingStore {
	return &ListingStore{
		fetcher:     fetcher,
		subscribers: make(map[int]chan struct{}),
	}
}

// SetFallback 注入次级查找源
func (s *ListingStore) SetFallback(fallback FallbackSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = fallback
}

// Refresh 重新拉取并原子替换快照。
// 失败时保留原快照并返回 *FetchError；
// 并发刷新时只有最新发起的那次响应会被采用，过期响应直接丢弃。
func (s *ListingStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.nextToken++
	token := s.nextToken
	fetcher := s.fetcher
	s.mu.Unlock()

	listings, err := fetcher.FetchAll(ctx)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return fe
		}
		return &FetchError{Err: err}
	}

	s.mu.Lock()
	if token < s.appliedToken {
		// 过期响应：已有更晚发起的刷新落盘
		s.mu.Unlock()
		return nil
	}
	s.appliedToken = token
	s.listings = listings
	s.loaded = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// Listings 返回快照副本
func (s *ListingStore) Listings() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Len 快照中的发布数量
func (s *ListingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// Loaded 是否已成功加载过至少一次
func (s *ListingStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get 两级查找：先查快照，没有再查兜底数据源
func (s *ListingStore) Get(id string) (*models.Listing, bool) {
	s.mu.RLock()
	for i := range s.listings {
		if s.listings[i].ID == id {
			listing := s.listings[i]
			s.mu.RUnlock()
			return &listing, true
		}
	}
	fallback := s.fallback
	s.mu.RUnlock()

	if fallback != nil {
		return fallback.Lookup(id)
	}
	return nil, false
}

// Remove 服务端删除确认后，从本地快照移除同一条发布
func (s *ListingStore) Remove(id string) bool {
	s.mu.Lock()
	removed := false
	for i := range s.listings {
		if s.listings[i].ID == id {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// Subscribe 订阅快照变更通知，返回通知通道和取消函数。
// 通道容量为1且非阻塞发送：慢消费者只会合并掉中间的通知，不会阻塞写入方。
func (s *ListingStore) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan struct{}, 1)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
	return ch, cancel
}

// notify 向所有订阅者广播变更（非阻塞）
func (s *ListingStore) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
