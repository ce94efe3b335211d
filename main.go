package main

import (
	"log"
	"os"

	"barterhub_go/config"
	"barterhub_go/middleware"
	"barterhub_go/routes"
	"barterhub_go/services"
	"barterhub_go/utils"
	"barterhub_go/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	//设置环境
	env := os.Getenv("GIN_MODE")
	if env == "" {
		os.Setenv("GIN_MODE", "debug")
	}

	// 初始化日志系统
	if err := middleware.InitLogger(env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer middleware.FlushLogger()

	// 初始化数据库
	if err := config.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDatabase()

	// 初始化Redis
	if err := config.InitializeRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer config.CloseRedis()

	// 注册自定义验证规则
	if err := utils.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// 初始化发布快照存储：默认数据库为数据源，配置了LISTINGS_API_URL则走远程接口，演示数据集兜底
	var fetcher services.ListingFetcher = &services.DBListingFetcher{}
	if apiURL := config.GetEnv("LISTINGS_API_URL", ""); apiURL != "" {
		fetcher = services.NewHTTPListingFetcher(apiURL)
	}
	store := services.NewListingStore(fetcher)
	store.SetFallback(services.NewDemoSource())
	listingService := services.NewListingService(store)

	// 初始化websocket事件推送
	if err := websocket.InitWebSocket(store); err != nil {
		log.Fatalf("Failed to initialize WebSocket: %v", err)
	}
	defer websocket.CloseWebSocket()

	// 设置路由
	r := config.SetupRouter()

	// 注册自定义路由
	routes.SetupRoutes(r, listingService)

	if err := config.StartServer(r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
