package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/", ok)
	r.GET("/", ok)
	return r
}

func serve(r http.Handler, method, body string) int {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(2, time.Hour))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, ""))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, ""))
}

func TestDeduplication(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &deduplicator{
		window:   time.Second,
		requests: make(map[string]time.Time),
		now:      func() time.Time { return clock },
	}
	r := newEngine(dedupHandler(d))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, `{"a":1}`))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, `{"a":1}`))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, `{"a":2}`))

	// GET 不去重
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, ""))

	clock = clock.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, `{"a":1}`))
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(4))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "1234"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, http.MethodPost, "12345"))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, ""))
}

func TestBodySizeLimitWithoutContentLength(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		var v map[string]interface{}
		if err := c.ShouldBindJSON(&v); err != nil {
			if limit, ok := IsBodyTooLarge(err); ok {
				AbortBodyTooLarge(c, limit, c.Request.ContentLength)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send(`{"a":1}`).Code)

	w := send(`{"query":"a very long search query"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodePayloadTooLarge)
}
