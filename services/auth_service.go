package services

import (
	"errors"
	"fmt"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig 认证配置
type AuthConfig struct {
	MaxLoginAttempts   int           // 最大登录失败次数
	LoginBlockDuration time.Duration // 登录封禁时长
}

// AuthService 认证服务
type AuthService struct {
	jwtService *config.JWTService
	authConfig *AuthConfig
}

// NewAuthService 创建认证服务实例
func NewAuthService() *AuthService {
	return &AuthService{
		jwtService: config.GetJWTService(),
		authConfig: &AuthConfig{
			MaxLoginAttempts:   5,
			LoginBlockDuration: 15 * time.Minute,
		},
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
func (as *AuthService) Register(req *RegisterRequest) (*models.User, string, error) {
	// 1. 检查邮箱是否已注册
	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, "", errors.New("email already registered")
	}

	// 2. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. 创建用户
	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Status:   1,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	// 4. 生成token
	token, err := as.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return &user, token, nil
}

// Login 用户登录
func (as *AuthService) Login(req *LoginRequest, clientIP string) (*models.User, string, error) {
	// 1. 检查登录失败封禁
	if as.isLoginBlocked(req.Email) {
		return nil, "", errors.New("too many failed login attempts, try again later")
	}

	// 2. 查找用户
	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		as.recordLoginFailure(req.Email, clientIP)
		return nil, "", errors.New("invalid email or password")
	}

	if user.Status != 1 {
		return nil, "", errors.New("account is disabled")
	}

	// 3. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		as.recordLoginFailure(req.Email, clientIP)
		return nil, "", errors.New("invalid email or password")
	}

	// 4. 更新登录信息
	now := time.Now()
	config.DB.Model(&user).Updates(map[string]interface{}{
		"last_login":  now,
		"login_count": user.LoginCount + 1,
	})

	// 5. 生成token
	token, err := as.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// 6. 清除失败计数
	if config.RedisClient != nil {
		go config.RedisClient.Del(redisCtx, "login:failures:"+req.Email)
	}

	return &user, token, nil
}

// RefreshToken 刷新即将过期的token
func (as *AuthService) RefreshToken(tokenString string) (string, error) {
	return as.jwtService.RefreshToken(tokenString)
}

// Logout 登出：把token加入黑名单直到过期
func (as *AuthService) Logout(tokenString string) error {
	claims, err := as.jwtService.ValidateToken(tokenString)
	if err != nil {
		// token本身已无效，视为登出成功
		return nil
	}

	if config.RedisClient != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			config.RedisClient.Set(redisCtx, "token:blacklist:"+tokenString, "1", ttl)
		}
	}
	return nil
}

// IsTokenBlacklisted 检查token是否已登出
func (as *AuthService) IsTokenBlacklisted(tokenString string) bool {
	if config.RedisClient == nil {
		return false
	}
	exists, _ := config.RedisClient.Exists(redisCtx, "token:blacklist:"+tokenString).Result()
	return exists > 0
}

// recordLoginFailure 记录登录失败（Redis计数）
func (as *AuthService) recordLoginFailure(email, clientIP string) {
	if config.RedisClient == nil {
		return
	}

	key := "login:failures:" + email
	count, err := config.RedisClient.Incr(redisCtx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		config.RedisClient.Expire(redisCtx, key, as.authConfig.LoginBlockDuration)
	}
}

// isLoginBlocked 检查是否因连续失败被临时封禁
func (as *AuthService) isLoginBlocked(email string) bool {
	if config.RedisClient == nil {
		return false
	}

	count, err := config.RedisClient.Get(redisCtx, "login:failures:"+email).Int()
	if err != nil {
		return false
	}
	return count >= as.authConfig.MaxLoginAttempts
}
