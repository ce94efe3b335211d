package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"barterhub_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher 可切换返回内容的测试数据源
type stubFetcher struct {
	mu       sync.Mutex
	listings []models.Listing
	err      error
}

func (f *stubFetcher) FetchAll(ctx context.Context) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Listing, len(f.listings))
	copy(out, f.listings)
	return out, nil
}

func (f *stubFetcher) set(listings []models.Listing, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings = listings
	f.err = err
}

// blockingFetcher 让每次FetchAll阻塞到被放行，用于模拟并发刷新
type blockingFetcher struct {
	mu      sync.Mutex
	next    int
	entered chan int
	release []chan struct{}
	results [][]models.Listing
}

func (f *blockingFetcher) FetchAll(ctx context.Context) ([]models.Listing, error) {
	f.mu.Lock()
	i := f.next
	f.next++
	f.mu.Unlock()

	f.entered <- i
	<-f.release[i]
	return f.results[i], nil
}

func TestListingStoreRefresh(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(3)}
	store := NewListingStore(fetcher)

	assert.False(t, store.Loaded())

	require.NoError(t, store.Refresh(context.Background()))
	assert.True(t, store.Loaded())
	assert.Equal(t, 3, store.Len())
}

func TestListingStoreRefreshFailureKeepsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(3)}
	store := NewListingStore(fetcher)
	require.NoError(t, store.Refresh(context.Background()))

	fetcher.set(nil, &FetchError{StatusCode: 503})
	err := store.Refresh(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 503, fe.StatusCode)

	assert.Equal(t, 3, store.Len(), "failed refresh must not clear the previous snapshot")
	assert.True(t, store.Loaded())
}

func TestListingStoreWrapsPlainErrors(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	store := NewListingStore(fetcher)

	err := store.Refresh(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.StatusCode)
}

func TestListingStoreStaleRefreshDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{
		entered: make(chan int, 2),
		release: []chan struct{}{make(chan struct{}), make(chan struct{})},
		results: [][]models.Listing{
			{{ID: "stale"}},
			{{ID: "fresh"}},
		},
	}
	store := NewListingStore(fetcher)

	done := make(chan error, 2)
	go func() { done <- store.Refresh(context.Background()) }()
	require.Equal(t, 0, <-fetcher.entered)

	go func() { done <- store.Refresh(context.Background()) }()
	require.Equal(t, 1, <-fetcher.entered)

	// 后发起的刷新先返回
	close(fetcher.release[1])
	require.NoError(t, <-done)
	require.Equal(t, []string{"fresh"}, resultIDs(store.Listings()))

	// 先发起的刷新迟到，响应被丢弃
	close(fetcher.release[0])
	require.NoError(t, <-done)
	assert.Equal(t, []string{"fresh"}, resultIDs(store.Listings()), "late response must not overwrite a newer snapshot")
}

func TestListingStoreGetWithFallback(t *testing.T) {
	fetcher := &stubFetcher{listings: []models.Listing{{ID: "live-1", Title: "Live"}}}
	store := NewListingStore(fetcher)
	store.SetFallback(NewDemoSource())
	require.NoError(t, store.Refresh(context.Background()))

	// 第一级：快照命中
	listing, ok := store.Get("live-1")
	require.True(t, ok)
	assert.Equal(t, "Live", listing.Title)

	// 第二级：演示数据集兜底
	demo, ok := store.Get("demo-1")
	require.True(t, ok)
	assert.NotEmpty(t, demo.Title)

	// 两级都未命中
	_, ok = store.Get("nope")
	assert.False(t, ok)
}

func TestListingStoreRemove(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(3)}
	store := NewListingStore(fetcher)
	require.NoError(t, store.Refresh(context.Background()))

	assert.True(t, store.Remove("listing-1"))
	assert.Equal(t, 2, store.Len())
	_, ok := store.Get("listing-1")
	assert.False(t, ok)

	assert.False(t, store.Remove("listing-1"), "removing twice is a no-op")
}

func TestListingStoreSubscribe(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(2)}
	store := NewListingStore(fetcher)

	ch, cancel := store.Subscribe()
	defer cancel()

	require.NoError(t, store.Refresh(context.Background()))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification after refresh")
	}

	store.Remove("listing-0")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification after remove")
	}
}

func TestListingStoreSubscribeCancel(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(1)}
	store := NewListingStore(fetcher)

	ch, cancel := store.Subscribe()
	cancel()

	require.NoError(t, store.Refresh(context.Background()))

	select {
	case <-ch:
		t.Fatal("cancelled subscriber must not be notified")
	default:
	}
}

func TestListingStoreListingsReturnsCopy(t *testing.T) {
	fetcher := &stubFetcher{listings: makeResults(2)}
	store := NewListingStore(fetcher)
	require.NoError(t, store.Refresh(context.Background()))

	snapshot := store.Listings()
	snapshot[0].ID = "mutated"

	assert.Equal(t, "listing-0", store.Listings()[0].ID)
}
