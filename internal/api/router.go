package api

import (
	"net/http"
	"time"

	"recipe-finder/internal/api/handlers/health"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/workspace"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// 超時設置，需大於遠端 API 的超時
	timeoutDuration = 30 * time.Second
	// 請求體大小限制預設值 (1MB)
	defaultMaxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, ws *workspace.Workspace, cacheManager *cache.CacheManager, storage health.Storage) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	maxBodySize := cfg.Server.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, cacheManager, storage)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"code":  common.ErrCodeNotFound,
		})
	})

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(timeoutDuration))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	dedup := middleware.Deduplication(cfg.DedupWindow)

	h := recipeHandler.NewHandler(ws, cfg.Search.TitleLimit)
	{
		searchGroup := api.Group("/search")
		searchGroup.POST("", h.HandleSearch)
		searchGroup.GET("/results", h.HandleResults)

		recipeGroup := api.Group("/recipe")
		recipeGroup.GET("", h.HandleCurrentRecipe)
		recipeGroup.GET("/:id", h.HandleSelectRecipe)
		recipeGroup.POST("/servings", h.HandleUpdateServings)

		listGroup := api.Group("/list")
		listGroup.GET("", h.HandleShoppingList)
		listGroup.POST("/recipe", dedup, h.HandleAddRecipeToList)
		listGroup.POST("/items", h.HandleAddItem)
		listGroup.PATCH("/items/:id", h.HandleUpdateItem)
		listGroup.DELETE("/items/:id", h.HandleDeleteItem)

		likesGroup := api.Group("/likes")
		likesGroup.GET("", h.HandleLikes)
		likesGroup.POST("/toggle", dedup, h.HandleToggleLike)
		likesGroup.DELETE("/:id", h.HandleDeleteLike)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", cacheManager != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.String("likes_backend", cfg.Likes.Backend),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}
