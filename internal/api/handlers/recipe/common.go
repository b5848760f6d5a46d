package recipe

import (
	"net/http"
	"strconv"

	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/workspace"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 搜尋、食譜、購物清單與收藏的 HTTP 處理程序
type Handler struct {
	workspace  *workspace.Workspace
	titleLimit int
}

// NewHandler 創建新的處理程序
func NewHandler(ws *workspace.Workspace, titleLimit int) *Handler {
	return &Handler{
		workspace:  ws,
		titleLimit: titleLimit,
	}
}

// respondError 依錯誤類型回應狀態碼
func respondError(c *gin.Context, err error) {
	status, code := common.StatusFromError(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogWarn("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}

// respondBadRequest 請求格式錯誤
func respondBadRequest(c *gin.Context, err error) {
	if limit, ok := middleware.IsBodyTooLarge(err); ok {
		middleware.AbortBodyTooLarge(c, limit, c.Request.ContentLength)
		return
	}
	common.LogWarn("Invalid request format",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request format",
		"code":  common.ErrCodeInvalidRequest,
	})
}

// queryInt 讀取整數查詢參數，缺少時使用預設值
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
