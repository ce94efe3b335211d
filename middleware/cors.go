package middleware

import (
	"strings"
	"time"

	"barterhub_go/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 返回CORS中间件。
// 允许的来源可通过 CORS_ORIGINS 配置（逗号分隔），默认为本地前端端口。
func CORS() gin.HandlerFunc {
	origins := strings.Split(config.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
