package recipe

import (
	"net/http"

	recipeCore "recipe-finder/internal/core/recipe"

	"github.com/gin-gonic/gin"
)

// ServingsRequest 份量調整請求
type ServingsRequest struct {
	Direction recipeCore.Direction `json:"direction" binding:"required,oneof=inc dec"`
}

// RecipeResponse 食譜及其收藏狀態
type RecipeResponse struct {
	*recipeCore.Recipe
	Liked bool `json:"liked"`
}

// HandleSelectRecipe 載入指定食譜並設為目前食譜
func (h *Handler) HandleSelectRecipe(c *gin.Context) {
	r, err := h.workspace.SelectRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toRecipeResponse(r))
}

// HandleCurrentRecipe 目前食譜
func (h *Handler) HandleCurrentRecipe(c *gin.Context) {
	r, err := h.workspace.CurrentRecipe()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toRecipeResponse(r))
}

// HandleUpdateServings 份量加一或減一
func (h *Handler) HandleUpdateServings(c *gin.Context) {
	var req ServingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	r, err := h.workspace.UpdateServings(req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toRecipeResponse(r))
}

func (h *Handler) toRecipeResponse(r *recipeCore.Recipe) RecipeResponse {
	return RecipeResponse{
		Recipe: r,
		Liked:  h.workspace.IsLiked(r.ID),
	}
}
