package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"
)

// DBListingFetcher 进程内数据源：直接查数据库。
// 服务端约定返回按 created_at 倒序的完整列表。
type DBListingFetcher struct{}

// FetchAll 拉取全部发布
func (f *DBListingFetcher) FetchAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := config.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, &FetchError{Err: fmt.Errorf("query listings: %w", err)}
	}
	return listings, nil
}

// HTTPListingFetcher 远程数据源：请求后端的发布列表接口。
// 非2xx状态码和传输错误都包装成 *FetchError。
type HTTPListingFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPListingFetcher 创建远程数据源
func NewHTTPListingFetcher(baseURL string) *HTTPListingFetcher {
	return &HTTPListingFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchAll 请求 GET {base}/api/listings
func (f *HTTPListingFetcher) FetchAll(ctx context.Context) ([]models.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/api/listings", nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var listings []models.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode listings: %w", err)}
	}
	return listings, nil
}
