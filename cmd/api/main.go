package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-finder/internal/api"
	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/likes"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/service"
	"recipe-finder/internal/core/shopping"
	"recipe-finder/internal/core/workspace"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/storage"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("forkify_base_url", cfg.Forkify.BaseURL),
		zap.String("likes_backend", cfg.Likes.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// 初始化快取，停用時為 nil
	cacheManager := cache.NewManager(cfg)
	defer cacheManager.Close()

	// 收藏儲存
	store, err := storage.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	forkify := service.NewForkifyService(cfg, cacheManager)
	ws := workspace.New(
		forkify,
		recipe.NewService(forkify, recipe.Estimates{
			DefaultServings:      cfg.Recipe.DefaultServings,
			MinutesPerIngredient: cfg.Recipe.MinutesPerIngredient,
		}),
		shopping.New(),
		likes.NewStore(store, cfg.Likes.Key),
		cfg.Search.PageSize,
	)

	// 收藏無法讀取時以空集合啟動
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 5*time.Second)
	if err := ws.RestoreLikes(restoreCtx); err != nil {
		common.LogWarn("Starting with empty likes", zap.Error(err))
	}
	cancelRestore()

	router := api.SetupRouter(cfg, ws, cacheManager, store)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
