package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/core/likes"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/shopping"
	"recipe-finder/internal/core/workspace"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	searchErr error
}

func (f *fakeRemote) Search(ctx context.Context, query string) ([]search.Summary, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := make([]search.Summary, 25)
	for i := range out {
		out[i] = search.Summary{ID: fmt.Sprint(i + 1), Title: "Pasta with tomato and spinach"}
	}
	return out, nil
}

func (f *fakeRemote) GetRecipe(ctx context.Context, id string) (*recipe.Source, error) {
	if id != "1" {
		return nil, errors.New("not found")
	}
	return &recipe.Source{
		Title:           "Pasta with tomato and spinach",
		Author:          "Chef",
		IngredientLines: []string{"2 cups tomato sauce", "1 lb pasta"},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Version: "test"},
		Server:      config.ServerConfig{MaxBodySize: 1 << 16},
		Search:      config.SearchConfig{PageSize: 10, TitleLimit: 17},
		Likes:       config.LikesConfig{Backend: "memory", Key: "likes"},
		DedupWindow: time.Millisecond,
	}
}

func newTestRouter(t *testing.T, remote *fakeRemote) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := storage.NewMemoryStorage()
	ws := workspace.New(
		remote,
		recipe.NewService(remote, recipe.DefaultEstimates()),
		shopping.New(),
		likes.NewStore(backend, ""),
		10,
	)
	return SetupRouter(testConfig(), ws, nil, backend)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{})

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.NotEmpty(t, doJSON(t, r, http.MethodGet, "/live", nil).Header().Get("X-Request-ID"))
}

func TestSearchRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/search/results", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/search", map[string]string{"query": "pasta"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 25.0, body["count"])
	results := body["results"].([]interface{})
	require.Len(t, results, 10)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Pasta with tomato...", first["short_title"])
	assert.Equal(t, "Pasta with tomato and spinach", first["title"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/search/results?page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Len(t, body["results"], 5)
	pages := body["pages"].(map[string]interface{})
	assert.Equal(t, 2.0, pages["prev"])
	assert.Nil(t, pages["next"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/search/results?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/search", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchFailureIsBadGateway(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{searchErr: errors.New("timeout")})

	w := doJSON(t, r, http.MethodPost, "/api/v1/search", map[string]string{"query": "pasta"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "SEARCH_FAILED", decode(t, w)["code"])
}

func TestRecipeListAndLikesFlow(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/recipe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipe/404", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "RECIPE_FETCH_FAILED", decode(t, w)["code"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipe/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 4.0, body["servings"])
	assert.Equal(t, false, body["liked"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/recipe/servings", map[string]string{"direction": "inc"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, decode(t, w)["servings"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/recipe/servings", map[string]string{"direction": "double"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/list/recipe", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 2)
	id := items[0].(map[string]interface{})["id"].(string)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/list/items/"+id, map[string]float64{"count": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7.0, decode(t, w)["count"])

	w = doJSON(t, r, http.MethodPatch, "/api/v1/list/items/missing", map[string]float64{"count": 7})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/list/items", map[string]interface{}{"count": 2, "unit": "kg", "ingredient": "pasta"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/list", nil)
	assert.Equal(t, 3.0, decode(t, w)["count"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/list/items/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/v1/list/items/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/likes/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["liked"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/likes", nil)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/likes/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/likes", nil)
	assert.Equal(t, 0.0, decode(t, w)["count"])
}

func TestMergedShoppingList(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{})

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/list/items", map[string]interface{}{"count": 1, "unit": "cup", "ingredient": "rice"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/list?merged=true", nil)
	body := decode(t, w)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, true, body["merged"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/list?merged=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOversizedBodyWithoutContentLength(t *testing.T) {
	r := newTestRouter(t, &fakeRemote{})

	body := `{"query":"` + strings.Repeat("x", 1<<17) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decode(t, w)["code"])
}
