package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"
	"barterhub_go/services"
	"barterhub_go/utils"

	"github.com/gin-gonic/gin"
)

var ctx = context.Background()

// UserController 用户控制器
type UserController struct {
	listingService *services.ListingService
	uploader       *utils.ImageUploader
}

// NewUserController 创建用户控制器实例
func NewUserController(listingService *services.ListingService) *UserController {
	return &UserController{
		listingService: listingService,
		uploader:       utils.NewImageUploader(),
	}
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
	Location string `json:"location" binding:"max=100"`
	Bio      string `json:"bio" binding:"max=500"`
	Image    string `json:"image"`
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 返回当前用户资料、发布列表和收藏列表
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/users/me [get]
func (uc *UserController) GetMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.Unauthorized(c, "User not found")
		return
	}

	listings, _ := uc.listingService.GetMyListings(userID)
	saved, _ := uc.listingService.GetSavedListings(userID)

	utils.Success(c, gin.H{
		"user":          user,
		"listings":      listings,
		"savedListings": saved,
	})
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Description 更新用户名、地区、简介和头像
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body UpdateProfileRequest true "资料信息"
// @Success 200 {object} utils.Response
// @Router /api/users/profile [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.Unauthorized(c, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}

	// 头像以 data URL 提交时落盘为文件
	if req.Image != "" {
		image := req.Image
		if len(image) > 5 && image[:5] == "data:" {
			result, err := uc.uploader.SaveDataURL(image)
			if err != nil {
				utils.BadRequest(c, err.Error())
				return
			}
			image = result.URL
		}
		updates["image"] = image
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.InternalError(c, "Failed to update profile")
			return
		}
	}

	// 清除用户资料缓存
	if config.RedisClient != nil {
		go config.RedisClient.Del(ctx, fmt.Sprintf("user:profile:%s", userID))
	}

	config.DB.First(&user, "id = ?", userID)
	utils.Success(c, user)
}

// GetUserProfile 获取用户公开资料
// @Summary 获取用户公开资料
// @Description 根据用户ID获取公开资料和发布列表
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} utils.Response
// @Router /api/users/{id} [get]
func (uc *UserController) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")

	// 先尝试从Redis缓存获取
	cacheKey := fmt.Sprintf("user:profile:%s", userID)
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var payload gin.H
			if json.Unmarshal([]byte(cached), &payload) == nil {
				utils.Success(c, payload)
				return
			}
		}
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	listings, _ := uc.listingService.GetMyListings(userID)

	payload := gin.H{
		"user":     user.Summary(),
		"location": user.Location,
		"bio":      user.Bio,
		"listings": listings,
	}

	// 异步缓存到Redis
	if config.RedisClient != nil {
		go func() {
			data, _ := json.Marshal(payload)
			config.RedisClient.Set(ctx, cacheKey, data, 10*time.Minute)
		}()
	}

	utils.Success(c, payload)
}
