package controllers

import (
	"strconv"
	"strings"

	"barterhub_go/models"
	"barterhub_go/services"
	"barterhub_go/utils"

	"github.com/gin-gonic/gin"
)

// ListingController 发布控制器
type ListingController struct {
	listingService *services.ListingService
	uploader       *utils.ImageUploader
}

// NewListingController 创建发布控制器实例
func NewListingController(listingService *services.ListingService) *ListingController {
	return &ListingController{
		listingService: listingService,
		uploader:       utils.NewImageUploader(),
	}
}

// GetListings 获取发布列表
// @Summary 获取发布列表
// @Description 获取全部发布，按创建时间倒序
// @Tags listings
// @Accept json
// @Produce json
// @Success 200 {object} utils.Response
// @Router /api/listings [get]
func (lc *ListingController) GetListings(c *gin.Context) {
	listings, err := lc.listingService.GetListings(c.Request.Context())
	if err != nil {
		utils.InternalError(c, "Failed to get listings")
		return
	}

	utils.Success(c, gin.H{"listings": listings, "total": len(listings)})
}

// SearchListings 搜索发布
// @Summary 搜索发布
// @Description 按关键词、分类、成色、交换方式筛选并分页
// @Tags listings
// @Accept json
// @Produce json
// @Param search query string false "搜索关键词"
// @Param categories query string false "分类，逗号分隔"
// @Param condition query string false "成色筛选"
// @Param exchangeMethod query string false "交换方式筛选"
// @Param maxDistance query int false "最大距离（公里）"
// @Param sortBy query string false "排序方式 recent/oldest" default(recent)
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(8)
// @Success 200 {object} utils.PageResponse
// @Router /api/listings/search [get]
func (lc *ListingController) SearchListings(c *gin.Context) {
	opts := parseFilterOptions(c)
	searchText := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(services.DefaultPageSize)))

	view, err := lc.listingService.Search(c.Request.Context(), searchText, opts, page, pageSize)
	if err != nil {
		utils.InternalError(c, "Failed to search listings")
		return
	}

	utils.Paginate(c, view.Items, view.Total, view.Page, view.PageSize, view.TotalPages)
}

// parseFilterOptions 从查询参数解析筛选条件
func parseFilterOptions(c *gin.Context) models.FilterOptions {
	opts := models.DefaultFilterOptions()

	if raw := c.Query("categories"); raw != "" {
		opts.Categories = strings.Split(raw, ",")
	}
	if condition := c.Query("condition"); condition != "" {
		opts.Condition = condition
	}
	if method := c.Query("exchangeMethod"); method != "" {
		opts.ExchangeMethod = method
	}
	if distance, err := strconv.Atoi(c.Query("maxDistance")); err == nil {
		opts.MaxDistance = distance
	}
	if sortBy := c.Query("sortBy"); sortBy != "" {
		opts.SortBy = sortBy
	}

	return opts.Normalize()
}

// GetListing 获取发布详情
// @Summary 获取发布详情
// @Description 根据发布ID获取详细信息，数据库无此记录时回退到快照和演示数据
// @Tags listings
// @Accept json
// @Produce json
// @Param id path string true "发布ID"
// @Success 200 {object} utils.Response
// @Router /api/listings/{id} [get]
func (lc *ListingController) GetListing(c *gin.Context) {
	listingID := c.Param("id")

	listing, err := lc.listingService.GetListing(listingID)
	if err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}

	utils.Success(c, listing)
}

// CreateListing 创建发布
// @Summary 创建发布
// @Description 创建新的物品发布，图片以 base64 data URL 提交
// @Tags listings
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateListingRequest true "发布信息"
// @Success 201 {object} utils.Response
// @Router /api/listings [post]
func (lc *ListingController) CreateListing(c *gin.Context) {
	userID := c.GetString("user_id")

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	// 把 data URL 图片落盘，已是URL的图片原样保留
	images, err := lc.storeImages(req.Images)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	req.Images = images

	listing, err := lc.listingService.CreateListing(userID, &req)
	if err != nil {
		utils.InternalError(c, "Failed to create listing")
		return
	}

	utils.Created(c, listing)
}

// storeImages 保存 data URL 图片，返回可访问的URL列表
func (lc *ListingController) storeImages(images []string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if !strings.HasPrefix(img, "data:") {
			urls = append(urls, img)
			continue
		}

		result, err := lc.uploader.SaveDataURL(img)
		if err != nil {
			return nil, err
		}
		urls = append(urls, result.URL)
	}
	return urls, nil
}

// DeleteListing 删除发布
// @Summary 删除发布
// @Description 删除自己的发布（软删除）
// @Tags listings
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "发布ID"
// @Success 200 {object} utils.Response
// @Router /api/listings/{id} [delete]
func (lc *ListingController) DeleteListing(c *gin.Context) {
	userID := c.GetString("user_id")
	listingID := c.Param("id")

	if err := lc.listingService.DeleteListing(userID, listingID); err != nil {
		if strings.Contains(err.Error(), "permission") {
			utils.Forbidden(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c, "Failed to delete listing")
		return
	}

	utils.SuccessWithMessage(c, "Listing deleted", nil)
}

// GetMyListings 获取我的发布列表
// @Summary 获取我的发布列表
// @Description 获取当前登录用户的发布列表
// @Tags listings
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/listings/mine [get]
func (lc *ListingController) GetMyListings(c *gin.Context) {
	userID := c.GetString("user_id")

	listings, err := lc.listingService.GetMyListings(userID)
	if err != nil {
		utils.InternalError(c, "Failed to get my listings")
		return
	}

	utils.Success(c, gin.H{"listings": listings})
}

// ToggleSaved 收藏/取消收藏发布
// @Summary 收藏发布
// @Description 收藏或取消收藏发布，返回操作后的收藏状态
// @Tags listings
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "发布ID"
// @Success 200 {object} utils.Response
// @Router /api/listings/{id}/save [post]
func (lc *ListingController) ToggleSaved(c *gin.Context) {
	userID := c.GetString("user_id")
	listingID := c.Param("id")

	saved, err := lc.listingService.ToggleSaved(userID, listingID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c, "Failed to toggle saved state")
		return
	}

	utils.Success(c, gin.H{"saved": saved})
}

// GetSavedListings 获取收藏的发布
// @Summary 获取收藏的发布
// @Description 获取当前用户收藏的发布列表
// @Tags listings
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/listings/saved [get]
func (lc *ListingController) GetSavedListings(c *gin.Context) {
	userID := c.GetString("user_id")

	listings, err := lc.listingService.GetSavedListings(userID)
	if err != nil {
		utils.InternalError(c, "Failed to get saved listings")
		return
	}

	utils.Success(c, gin.H{"listings": listings})
}
