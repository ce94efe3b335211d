package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"
)

var redisCtx = context.Background()

// ListingService 发布服务
type ListingService struct {
	store *ListingStore
	// 收藏统计队列
	saveStatsQueue chan *saveStat
}

// saveStat 收藏统计事件
type saveStat struct {
	ListingID string
	Delta     int64
}

// NewListingService 创建发布服务实例
func NewListingService(store *ListingStore) *ListingService {
	ls := &ListingService{
		store:          store,
		saveStatsQueue: make(chan *saveStat, 2000),
	}

	// 启动收藏统计worker
	go ls.processSaveStats()

	return ls
}

// Store 返回底层快照存储
func (ls *ListingService) Store() *ListingStore {
	return ls.store
}

// ==================== CRUD操作 ====================

// CreateListingRequest 创建发布请求
type CreateListingRequest struct {
	Title          string   `json:"title" binding:"required,max=200"`
	Description    string   `json:"description" binding:"required"`
	Category       string   `json:"category" binding:"required,listing_category"`
	Condition      string   `json:"condition" binding:"omitempty,listing_condition"`
	ExchangeMethod string   `json:"exchangeMethod" binding:"required,exchange_method"`
	LookingFor     string   `json:"lookingFor" binding:"required"`
	Location       string   `json:"location" binding:"max=100"`
	Images         []string `json:"images"`
}

// CreateListing 创建发布
func (ls *ListingService) CreateListing(userID string, req *CreateListingRequest) (*models.Listing, error) {
	listing := models.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Condition:      req.Condition,
		ExchangeMethod: req.ExchangeMethod,
		LookingFor:     req.LookingFor,
		Location:       req.Location,
		UserID:         userID,
	}
	listing.SetImageList(req.Images)

	if err := config.DB.Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	// 带上发布者信息返回
	config.DB.Preload("User").First(&listing, "id = ?", listing.ID)

	// 异步清除缓存并刷新快照
	go ls.afterWrite(listing.ID)

	return &listing, nil
}

// DeleteListing 删除发布（仅发布者本人）
func (ls *ListingService) DeleteListing(userID, listingID string) error {
	var listing models.Listing
	if err := config.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return errors.New("listing not found")
	}

	if listing.UserID != userID {
		return errors.New("you don't have permission to delete this listing")
	}

	// 软删除
	if err := config.DB.Delete(&listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	// 服务端确认删除后，同步从本地快照移除同一条
	ls.store.Remove(listingID)

	go ls.clearListingCaches(listingID)

	return nil
}

// ==================== 查询方法 ====================

// GetListings 获取完整发布列表（created_at 倒序）。
// 优先走快照；快照未加载时先刷新一次。
func (ls *ListingService) GetListings(ctx context.Context) ([]models.Listing, error) {
	if !ls.store.Loaded() {
		if err := ls.store.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return ls.store.Listings(), nil
}

// GetListing 获取发布详情
func (ls *ListingService) GetListing(listingID string) (*models.Listing, error) {
	// 1. 尝试从Redis缓存获取
	cacheKey := fmt.Sprintf("listing:%s", listingID)
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(redisCtx, cacheKey).Result()
		if err == nil {
			var listing models.Listing
			if json.Unmarshal([]byte(cached), &listing) == nil {
				return &listing, nil
			}
		}
	}

	// 2. 从数据库查询
	var listing models.Listing
	if err := config.DB.Preload("User").First(&listing, "id = ?", listingID).Error; err == nil {
		// 3. 异步缓存到Redis
		go func() {
			if config.RedisClient != nil {
				data, _ := json.Marshal(listing)
				config.RedisClient.Set(redisCtx, cacheKey, data, 10*time.Minute)
			}
		}()
		return &listing, nil
	}

	// 4. 两级兜底：快照和演示数据集
	if fallback, ok := ls.store.Get(listingID); ok {
		return fallback, nil
	}

	return nil, errors.New("listing not found")
}

// GetMyListings 获取当前用户的发布列表
func (ls *ListingService) GetMyListings(userID string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := config.DB.
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get my listings: %w", err)
	}
	return listings, nil
}

// Search 在快照上执行 搜索→筛选→排序→分页 流水线
func (ls *ListingService) Search(ctx context.Context, searchText string, opts models.FilterOptions, page, pageSize int) (*PageView, error) {
	listings, err := ls.GetListings(ctx)
	if err != nil {
		return nil, err
	}

	// 记录热门搜索词
	if searchText != "" {
		go ls.recordSearchKeyword(searchText)
	}

	results := ApplyQuery(listings, searchText, opts)
	view := NewPageView(results, page, pageSize)
	return &view, nil
}

// ==================== 收藏方法 ====================

// ToggleSaved 收藏/取消收藏发布，返回操作后的收藏状态
func (ls *ListingService) ToggleSaved(userID, listingID string) (bool, error) {
	var listing models.Listing
	if err := config.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return false, errors.New("listing not found")
	}

	var saved models.SavedListing
	err := config.DB.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&saved).Error

	if err == nil {
		// 已收藏，取消收藏
		if err := config.DB.Delete(&saved).Error; err != nil {
			return false, fmt.Errorf("failed to unsave listing: %w", err)
		}
		ls.saveStatsQueue <- &saveStat{ListingID: listingID, Delta: -1}
		return false, nil
	}

	saved = models.SavedListing{
		UserID:    userID,
		ListingID: listingID,
	}
	if err := config.DB.Create(&saved).Error; err != nil {
		return false, fmt.Errorf("failed to save listing: %w", err)
	}
	ls.saveStatsQueue <- &saveStat{ListingID: listingID, Delta: 1}
	return true, nil
}

// GetSavedListings 获取当前用户收藏的发布
func (ls *ListingService) GetSavedListings(userID string) ([]models.Listing, error) {
	var saved []models.SavedListing
	if err := config.DB.
		Preload("Listing").
		Preload("Listing.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to get saved listings: %w", err)
	}

	listings := make([]models.Listing, 0, len(saved))
	for _, s := range saved {
		// 兜底：收藏的发布已被删除时尝试演示数据集
		if s.Listing.ID == "" {
			if fallback, ok := ls.store.Get(s.ListingID); ok {
				listings = append(listings, *fallback)
			}
			continue
		}
		listings = append(listings, s.Listing)
	}
	return listings, nil
}

// IsSaved 判断用户是否已收藏某发布
func (ls *ListingService) IsSaved(userID, listingID string) bool {
	var count int64
	config.DB.Model(&models.SavedListing{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count)
	return count > 0
}

// ==================== Worker相关方法 ====================

// processSaveStats 处理收藏统计
func (ls *ListingService) processSaveStats() {
	for stat := range ls.saveStatsQueue {
		config.DB.Exec("UPDATE listings SET save_count = save_count + ? WHERE id = ?", stat.Delta, stat.ListingID)

		// 更新Redis收藏排行榜
		if config.RedisClient != nil {
			config.RedisClient.ZIncrBy(redisCtx, "rank:listing:saves", float64(stat.Delta), stat.ListingID)
			config.RedisClient.Expire(redisCtx, "rank:listing:saves", 7*24*time.Hour)
		}
	}
}

// ==================== 辅助方法 ====================

// afterWrite 写操作后的缓存清理和快照刷新
func (ls *ListingService) afterWrite(listingID string) {
	ls.clearListingCaches(listingID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ls.store.Refresh(ctx); err != nil {
		// 刷新失败不影响写操作本身，快照保持上一份
		return
	}
}

// clearListingCaches 清除发布相关缓存
func (ls *ListingService) clearListingCaches(listingID string) {
	if config.RedisClient == nil {
		return
	}

	config.RedisClient.Del(redisCtx, fmt.Sprintf("listing:%s", listingID))

	// 清除搜索缓存（模糊匹配）
	keys, _ := config.RedisClient.Keys(redisCtx, "search:listings:*").Result()
	for _, key := range keys {
		config.RedisClient.Del(redisCtx, key)
	}
}

// recordSearchKeyword 记录搜索关键词
func (ls *ListingService) recordSearchKeyword(query string) {
	if config.RedisClient == nil {
		return
	}

	config.RedisClient.ZIncrBy(redisCtx, "search:hot", 1, query)
	config.RedisClient.Expire(redisCtx, "search:hot", 24*time.Hour)
}
