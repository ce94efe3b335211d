package controllers

import (
	"barterhub_go/middleware"
	"barterhub_go/services"
	"barterhub_go/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController 创建认证控制器实例
func NewAuthController() *AuthController {
	return &AuthController{
		authService: services.NewAuthService(),
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户并返回token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "注册信息"
// @Success 201 {object} utils.Response
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	user, token, err := ac.authService.Register(&req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, gin.H{
		"user":  user.Summary(),
		"token": token,
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱密码登录，返回token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "登录信息"
// @Success 200 {object} utils.Response
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	user, token, err := ac.authService.Login(&req, c.ClientIP())
	if err != nil {
		utils.Unauthorized(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"user":  user.Summary(),
		"token": token,
	})
}

// RefreshToken 刷新token
// @Summary 刷新token
// @Description 刷新即将过期的token
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/auth/refresh [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		utils.Unauthorized(c, "missing token")
		return
	}

	newToken, err := ac.authService.RefreshToken(token)
	if err != nil {
		utils.Unauthorized(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"token": newToken})
}

// Logout 用户登出
// @Summary 用户登出
// @Description 将当前token加入黑名单
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token != "" {
		ac.authService.Logout(token)
	}

	utils.SuccessWithMessage(c, "Logged out", nil)
}
