package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{"count":2,"recipes":[
	{"publisher":"101 Cookbooks","title":"Best Pizza Dough Ever","source_url":"http://www.101cookbooks.com/archives/001199.html","recipe_id":"47746","image_url":"http://forkify-api.herokuapp.com/images/best_pizza_dough_recipe1b20.jpg"},
	{"publisher":"The Pioneer Woman","title":"Deep Dish Fruit Pizza","source_url":"http://thepioneerwoman.com/cooking/2012/01/fruit-pizza/","recipe_id":"46956","image_url":"http://forkify-api.herokuapp.com/images/fruitpizza9a19.jpg"}
]}`

const recipeBody = `{"recipe":{"publisher":"101 Cookbooks","ingredients":["4 1/2 cups (20.25 ounces) unbleached high-gluten, bread, or all-purpose flour, chilled","1 3/4 cups water, ice cold (40F)"],"source_url":"http://www.101cookbooks.com/archives/001199.html","recipe_id":"47746","image_url":"http://forkify-api.herokuapp.com/images/best_pizza_dough_recipe1b20.jpg","title":"Best Pizza Dough Ever"}}`

func newTestService(t *testing.T, handler http.HandlerFunc, withCache bool) *ForkifyService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Forkify: config.ForkifyConfig{BaseURL: server.URL + "/api/", Timeout: 2 * time.Second},
		Cache: config.CacheConfig{
			Enabled:         withCache,
			MaxSize:         10,
			TTL:             time.Minute,
			CleanupInterval: time.Minute,
		},
	}
	cm := cache.NewManager(cfg)
	t.Cleanup(func() { _ = cm.Close() })
	return NewForkifyService(cfg, cm)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "pizza", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchBody))
	}, false)

	results, err := svc.Search(context.Background(), "pizza")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "47746", results[0].ID)
	assert.Equal(t, "101 Cookbooks", results[0].Author)
	assert.Equal(t, "Best Pizza Dough Ever", results[0].Title)
	assert.Contains(t, results[0].Image, "best_pizza_dough")
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"error field", http.StatusOK, `{"error":"Invalid key"}`},
		{"missing recipes", http.StatusOK, `{"count":0}`},
		{"malformed", http.StatusOK, `{"recipes":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, false)

			results, err := svc.Search(context.Background(), "pizza")
			assert.Nil(t, results)
			var searchErr *common.SearchError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, "pizza", searchErr.Query)
		})
	}
}

func TestSearchEmptyResultIsNotError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"recipes":[]}`))
	}, false)

	results, err := svc.Search(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetRecipe(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get", r.URL.Path)
		assert.Equal(t, "47746", r.URL.Query().Get("rId"))
		_, _ = w.Write([]byte(recipeBody))
	}, false)

	src, err := svc.GetRecipe(context.Background(), "47746")
	require.NoError(t, err)
	assert.Equal(t, "Best Pizza Dough Ever", src.Title)
	assert.Equal(t, "101 Cookbooks", src.Author)
	assert.Len(t, src.IngredientLines, 2)
	assert.Equal(t, 0, src.Servings)
}

func TestGetRecipeFailures(t *testing.T) {
	for _, body := range []string{`{"error":"Couldn't find recipe"}`, `{}`} {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, false)

		src, err := svc.GetRecipe(context.Background(), "1")
		assert.Nil(t, src)
		var fetchErr *common.RecipeFetchError
		require.ErrorAs(t, err, &fetchErr, body)
		assert.Equal(t, "1", fetchErr.ID)
	}
}

func TestResponsesAreCached(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(searchBody))
	}, true)

	for i := 0; i < 3; i++ {
		results, err := svc.Search(context.Background(), "pizza")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err := svc.Search(context.Background(), "pasta")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFailedResponsesAreNotCached(t *testing.T) {
	var calls int32
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"error":"limit reached"}`))
	}, true)

	_, err := svc.Search(context.Background(), "pizza")
	require.Error(t, err)
	_, err = svc.Search(context.Background(), "pizza")
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
