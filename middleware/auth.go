package middleware

import (
	"net/http"
	"strings"

	"barterhub_go/config"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 Bearer token，并把用户信息写入上下文。
// 未认证请求返回401，符合 GET /api/users/me 的约定。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40100, "message": "Not authenticated"})
			return
		}

		claims, err := config.GetJWTService().ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40100, "message": "Invalid or expired token"})
			return
		}

		// 已登出的token拒绝
		if config.RedisClient != nil {
			exists, _ := config.RedisClient.Exists(c.Request.Context(), "token:blacklist:"+token).Result()
			if exists > 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40100, "message": "Token has been revoked"})
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// ExtractToken 从 Authorization 头提取 Bearer token
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
