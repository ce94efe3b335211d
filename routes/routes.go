package routes

import (
	"barterhub_go/controllers"
	"barterhub_go/middleware"
	"barterhub_go/services"
	"barterhub_go/websocket"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置路由
func SetupRoutes(r *gin.Engine, listingService *services.ListingService) {
	// 应用全局中间件
	r.Use(middleware.CORS())
	r.Use(middleware.Logger())

	authController := controllers.NewAuthController()
	userController := controllers.NewUserController(listingService)
	listingController := controllers.NewListingController(listingService)
	messageController := controllers.NewMessageController()

	api := r.Group("/api")
	{
		// ====== 认证路由 (无需认证) ======
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.RefreshToken)
			auth.POST("/logout", authController.Logout)
		}

		// ====== 用户路由 ======
		users := api.Group("/users")
		{
			users.GET("/me", middleware.AuthMiddleware(), userController.GetMe)
			users.PUT("/profile", middleware.AuthMiddleware(), userController.UpdateProfile)
			users.GET("/:id", userController.GetUserProfile)
		}

		// ====== 发布路由 ======
		listings := api.Group("/listings")
		{
			listings.GET("", listingController.GetListings)
			listings.GET("/search", listingController.SearchListings)
			listings.GET("/mine", middleware.AuthMiddleware(), listingController.GetMyListings)
			listings.GET("/saved", middleware.AuthMiddleware(), listingController.GetSavedListings)
			listings.GET("/:id", listingController.GetListing)
			listings.POST("", middleware.AuthMiddleware(), listingController.CreateListing)
			listings.DELETE("/:id", middleware.AuthMiddleware(), listingController.DeleteListing)
			listings.POST("/:id/save", middleware.AuthMiddleware(), listingController.ToggleSaved)
		}

		// ====== 消息路由 ======
		messages := api.Group("/messages")
		{
			messages.GET("/conversations", middleware.AuthMiddleware(), messageController.GetConversations)
			messages.POST("/conversations", middleware.AuthMiddleware(), messageController.CreateConversation)
			messages.GET("/conversations/:id", middleware.AuthMiddleware(), messageController.GetMessages)
			messages.POST("/conversations/:id", middleware.AuthMiddleware(), messageController.SendMessage)
			messages.PUT("/conversations/:id/read", middleware.AuthMiddleware(), messageController.MarkAsRead)
		}
	}

	// 静态图片
	r.Static("/uploads", "./uploads")

	// ====== WebSocket路由：发布变更事件推送 ======
	r.GET("/ws", websocket.HandleConnection)
	r.GET("/ws/listings", websocket.HandleConnection)
}
