package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	cacheNamespaceSearch = "search"
	cacheNamespaceRecipe = "recipe"
)

// ForkifyService Forkify 食譜 API 客戶端
type ForkifyService struct {
	client *resty.Client
	cache  *cache.CacheManager
}

// forkifySummary 搜尋結果中的單筆食譜
type forkifySummary struct {
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
	RecipeID  string `json:"recipe_id"`
	ImageURL  string `json:"image_url"`
}

// forkifySearchResponse /search 回應
type forkifySearchResponse struct {
	Count   int              `json:"count"`
	Recipes []forkifySummary `json:"recipes"`
	Error   string           `json:"error"`
}

// forkifyRecipeResponse /get 回應
type forkifyRecipeResponse struct {
	Recipe *struct {
		forkifySummary
		Ingredients []string `json:"ingredients"`
		Servings    int      `json:"servings"`
		CookingTime int      `json:"cooking_time"`
	} `json:"recipe"`
	Error string `json:"error"`
}

// NewForkifyService 創建 Forkify 服務；cacheManager 可為 nil
func NewForkifyService(cfg *config.Config, cacheManager *cache.CacheManager) *ForkifyService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Forkify.BaseURL, "/")).
		SetTimeout(cfg.Forkify.Timeout).
		SetRetryCount(cfg.Forkify.RetryCount).
		SetHeader("Accept", "application/json")

	return &ForkifyService{
		client: client,
		cache:  cacheManager,
	}
}

// Search 依關鍵字搜尋食譜
func (s *ForkifyService) Search(ctx context.Context, query string) ([]search.Summary, error) {
	body, err := s.get(ctx, cacheNamespaceSearch, "/search", "q", query)
	if err != nil {
		return nil, &common.SearchError{Query: query, Err: err}
	}

	var result forkifySearchResponse
	if err := common.ParseJSONBytes(body, &result); err != nil {
		return nil, &common.SearchError{Query: query, Err: fmt.Errorf("failed to parse search response: %w", err)}
	}
	if result.Error != "" {
		return nil, &common.SearchError{Query: query, Err: errors.New(result.Error)}
	}
	if result.Recipes == nil {
		return nil, &common.SearchError{Query: query, Err: errors.New("no recipes in search response")}
	}

	summaries := make([]search.Summary, 0, len(result.Recipes))
	for _, r := range result.Recipes {
		summaries = append(summaries, search.Summary{
			ID:        r.RecipeID,
			Title:     r.Title,
			Author:    r.Publisher,
			Image:     r.ImageURL,
			SourceURL: r.SourceURL,
		})
	}

	s.store(ctx, cacheNamespaceSearch, query, body)
	return summaries, nil
}

// GetRecipe 取得單一食譜詳情
func (s *ForkifyService) GetRecipe(ctx context.Context, id string) (*recipe.Source, error) {
	body, err := s.get(ctx, cacheNamespaceRecipe, "/get", "rId", id)
	if err != nil {
		return nil, &common.RecipeFetchError{ID: id, Err: err}
	}

	var result forkifyRecipeResponse
	if err := common.ParseJSONBytes(body, &result); err != nil {
		return nil, &common.RecipeFetchError{ID: id, Err: fmt.Errorf("failed to parse recipe response: %w", err)}
	}
	if result.Error != "" {
		return nil, &common.RecipeFetchError{ID: id, Err: errors.New(result.Error)}
	}
	if result.Recipe == nil {
		return nil, &common.RecipeFetchError{ID: id, Err: errors.New("no recipe in response")}
	}

	r := result.Recipe
	src := &recipe.Source{
		Title:           r.Title,
		Author:          r.Publisher,
		Image:           r.ImageURL,
		SourceURL:       r.SourceURL,
		Servings:        r.Servings,
		PrepTimeMinutes: r.CookingTime,
		IngredientLines: r.Ingredients,
	}

	s.store(ctx, cacheNamespaceRecipe, id, body)
	return src, nil
}

// get 先查緩存，未命中時呼叫遠端 API 並回傳原始回應
func (s *ForkifyService) get(ctx context.Context, namespace, path, param, value string) ([]byte, error) {
	if cached, err := s.cache.Get(ctx, namespace, value); err == nil {
		return []byte(cached), nil
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam(param, value).
		Get(path)
	if err == nil && resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("forkify API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	common.LogRemoteCall(path, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// store 只緩存成功解析的回應
func (s *ForkifyService) store(ctx context.Context, namespace, key string, body []byte) {
	if err := s.cache.Set(ctx, namespace, key, string(body)); err != nil {
		common.LogWarn("Failed to cache forkify response",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
