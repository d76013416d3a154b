package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Ernest01982/winelistmanager/internal/config"
	"github.com/Ernest01982/winelistmanager/internal/handlers"
	"github.com/Ernest01982/winelistmanager/internal/importer"
	"github.com/Ernest01982/winelistmanager/internal/middleware"
	"github.com/Ernest01982/winelistmanager/internal/parser"
	"github.com/Ernest01982/winelistmanager/internal/queue"
	"github.com/Ernest01982/winelistmanager/internal/repository"
	"github.com/Ernest01982/winelistmanager/internal/session"
)

// @title Wine List Manager API
// @version 1.0.0
// @description Price sheet ingestion, review and import service with multi-tenant support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8095
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Redis is a cache, not a dependency - a missed connection only
	// disables read-through caching.
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	priceListRepo := repository.NewPriceListRepository(db, redisClient)

	offlineQueue, err := queue.New(cfg.QueueDir)
	if err != nil {
		log.Fatal("Failed to open offline queue directory:", err)
	}

	sheetParser := parser.New(logger)
	sessions := session.NewManager(cfg.SessionTTL, logger)
	imp := importer.New(priceListRepo, offlineQueue, cfg.ImportChunkSize, logger)

	uploadHandler := handlers.NewUploadHandler(sheetParser, sessions)
	importHandler := handlers.NewImportHandler(sessions, imp, offlineQueue, logger)
	priceListHandler := handlers.NewPriceListHandler(priceListRepo, cfg.DefaultPageSize, cfg.MaxPageSize)
	healthHandler := handlers.NewHealthHandler(priceListRepo, redisClient)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints (no tenant context required)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadyCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	{
		pricelists := api.Group("/pricelists")
		{
			// Upload and review
			pricelists.POST("/upload", uploadHandler.UploadPriceList)
			pricelists.GET("/preview", uploadHandler.GetPreview)
			pricelists.PATCH("/preview/rows/:rowNumber", uploadHandler.UpdatePreviewRow)
			pricelists.DELETE("/preview", uploadHandler.ClearPreview)

			// Import and offline queue
			pricelists.POST("/import", importHandler.ImportPriceList)
			pricelists.GET("/import/template", importHandler.GetImportTemplate)
			pricelists.GET("/queue", importHandler.ListQueue)
			pricelists.DELETE("/queue", importHandler.ClearQueue)
			pricelists.POST("/queue/:id/replay", importHandler.ReplayQueueEntry)
			pricelists.DELETE("/queue/:id", importHandler.RemoveQueueEntry)

			// Stored list
			pricelists.GET("", priceListHandler.GetItems)
			pricelists.GET("/brands", priceListHandler.GetBrands)
			pricelists.GET("/stats", priceListHandler.GetStats)
			pricelists.GET("/:id", priceListHandler.GetItem)
			pricelists.PUT("/:id", priceListHandler.UpdateItem)
			pricelists.DELETE("/:id", priceListHandler.DeleteItem)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Wine list manager starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down winelist-manager...")
	log.Println("Wine list manager stopped")
}
