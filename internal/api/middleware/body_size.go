package middleware

import (
	"errors"
	"net/http"

	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrCodePayloadTooLarge 請求體超過上限
const ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"

// BodySizeLimit 限制 JSON 請求體大小
//
// 已宣告長度的請求直接拒絕；未宣告長度 (chunked) 的請求在讀取超過上限時由
// IsBodyTooLarge 辨識，交給處理程序以 413 回應。
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			AbortBodyTooLarge(c, maxSize, c.Request.ContentLength)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsBodyTooLarge 錯誤是否來自超過上限的請求體
func IsBodyTooLarge(err error) (int64, bool) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return mbe.Limit, true
	}
	return 0, false
}

// AbortBodyTooLarge 記錄並以 413 結束請求；length 為 -1 表示未宣告長度
func AbortBodyTooLarge(c *gin.Context, maxSize, length int64) {
	common.LogWarn("Request body too large",
		zap.Int64("content_length", length),
		zap.Int64("max_size", maxSize),
		zap.String("client_ip", c.ClientIP()),
		zap.String("route", c.FullPath()),
	)
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error":    "Request body too large",
		"code":     ErrCodePayloadTooLarge,
		"max_size": maxSize,
	})
}
