package recipe

import (
	"net/http"
	"strconv"

	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AddItemRequest 手動新增購物清單項目
type AddItemRequest struct {
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient" binding:"required"`
}

// UpdateItemRequest 修改項目數量
type UpdateItemRequest struct {
	Count *float64 `json:"count" binding:"required"`
}

// HandleShoppingList 購物清單；merged=true 時合併相同食材
func (h *Handler) HandleShoppingList(c *gin.Context) {
	merged := false
	if raw := c.Query("merged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, common.NewValidationError("merged must be a boolean"))
			return
		}
		merged = v
	}

	items := h.workspace.ShoppingList(merged)
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"merged": merged,
	})
}

// HandleAddRecipeToList 將目前食譜的食材加入購物清單
func (h *Handler) HandleAddRecipeToList(c *gin.Context) {
	added, err := h.workspace.AddRecipeToList()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": added})
}

// HandleAddItem 手動新增項目
func (h *Handler) HandleAddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.workspace.AddListItem(req.Count, req.Unit, req.Ingredient)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// HandleUpdateItem 修改項目數量
func (h *Handler) HandleUpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.workspace.UpdateListItem(c.Param("id"), *req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleDeleteItem 刪除項目；重複刪除同樣回應 204
func (h *Handler) HandleDeleteItem(c *gin.Context) {
	h.workspace.DeleteListItem(c.Param("id"))
	c.Status(http.StatusNoContent)
}
