package recipe

import (
	"errors"
	"net/http"

	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleLikes 收藏清單
func (h *Handler) HandleLikes(c *gin.Context) {
	likes := h.workspace.Likes()
	c.JSON(http.StatusOK, gin.H{
		"likes": likes,
		"count": len(likes),
	})
}

// HandleToggleLike 切換目前食譜的收藏
//
// 持久化失敗時記憶體狀態已變更，回應 500 並附上目前狀態。
func (h *Handler) HandleToggleLike(c *gin.Context) {
	liked, err := h.workspace.ToggleLike(c.Request.Context())
	var pe *common.PersistenceError
	if errors.As(err, &pe) {
		common.LogError("Like toggled but not persisted",
			zap.Error(err),
			zap.Bool("liked", liked),
			zap.String("request_id", requestid.Get(c)),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodePersistenceFailed,
			"liked": liked,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
		"count": len(h.workspace.Likes()),
	})
}

// HandleDeleteLike 取消收藏
func (h *Handler) HandleDeleteLike(c *gin.Context) {
	if err := h.workspace.DeleteLike(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
