package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Fetcher 遠端食譜詳情來源
type Fetcher interface {
	GetRecipe(ctx context.Context, id string) (*Source, error)
}

// Service 食譜載入服務
type Service struct {
	fetcher   Fetcher
	estimates Estimates
}

// NewService 創建新的食譜載入服務
func NewService(fetcher Fetcher, est Estimates) *Service {
	return &Service{
		fetcher:   fetcher,
		estimates: est,
	}
}

// Load 取得食譜並完成解析、時間與份量推算；失敗時不回傳部分結果
func (s *Service) Load(ctx context.Context, id string) (*Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.NewValidationError("recipe id is required")
	}

	start := time.Now()
	src, err := s.fetcher.GetRecipe(ctx, id)
	if err == nil && src == nil {
		err = errors.New("empty recipe payload")
	}
	metrics.RecipeFetches.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		var fetchErr *common.RecipeFetchError
		if !errors.As(err, &fetchErr) {
			err = &common.RecipeFetchError{ID: id, Err: err}
		}
		common.LogError("Failed to load recipe",
			zap.String("recipe_id", id),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}

	r := New(id, src, s.estimates)
	r.ParseIngredients()
	r.CalcTime()
	r.CalcServings()

	common.LogInfo("Recipe loaded",
		zap.String("recipe_id", id),
		zap.String("title", r.Title),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("servings", r.Servings),
		zap.Duration("elapsed", time.Since(start)),
	)

	return r, nil
}
