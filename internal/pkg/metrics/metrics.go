// Package metrics 定義服務的 Prometheus 指標
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipe_finder"

var (
	// HTTPRequests HTTP 請求數
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})

	// SearchRequests 遠端搜尋次數
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Remote recipe searches by result.",
	}, []string{"result"})

	// RecipeFetches 遠端食譜詳情取得次數
	RecipeFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipe_fetches_total",
		Help:      "Remote recipe detail fetches by result.",
	}, []string{"result"})

	// CacheLookups 快取查詢次數
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Response cache lookups by namespace and result.",
	}, []string{"namespace", "result"})

	// ParseWarnings 食材降級解析次數
	ParseWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingredient_parse_warnings_total",
		Help:      "Ingredient lines that could not be fully parsed.",
	})

	// PersistenceErrors 收藏持久化失敗次數
	PersistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_errors_total",
		Help:      "Likes storage failures by operation.",
	}, []string{"op"})

	// Likes 目前收藏數
	Likes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "likes",
		Help:      "Number of liked recipes.",
	})

	// ShoppingListItems 購物清單項目數
	ShoppingListItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "shopping_list_items",
		Help:      "Number of entries on the shopping list.",
	})
)

// Result 將錯誤轉為指標標籤
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
