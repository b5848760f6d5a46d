package recipe

import (
	"fmt"
	"net/http"

	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/workspace"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchRequest 搜尋請求
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResult 結果列表中的一筆食譜
type SearchResult struct {
	search.Summary
	ShortTitle string `json:"short_title"`
}

// SearchResponse 一頁搜尋結果
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
	Pages   search.Pages   `json:"pages"`
}

// HandleSearch 執行新搜尋並回傳第一頁
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	common.LogInfo("Search requested",
		zap.String("query", req.Query),
		zap.String("request_id", requestid.Get(c)),
	)

	page, err := h.workspace.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toSearchResponse(page))
}

// HandleResults 目前搜尋的指定頁
func (h *Handler) HandleResults(c *gin.Context) {
	p, ok := queryInt(c, "page", 1)
	if !ok || p < 1 {
		respondError(c, common.NewValidationError("page must be a positive integer"))
		return
	}
	size, ok := queryInt(c, "size", 0)
	if !ok || size < 0 {
		respondError(c, common.NewValidationError(fmt.Sprintf("invalid page size %q", c.Query("size"))))
		return
	}

	page, err := h.workspace.Results(p, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toSearchResponse(page))
}

func (h *Handler) toSearchResponse(page workspace.ResultsPage) SearchResponse {
	results := make([]SearchResult, len(page.Results))
	for i, r := range page.Results {
		results[i] = SearchResult{
			Summary:    r,
			ShortTitle: search.LimitTitle(r.Title, h.titleLimit),
		}
	}
	return SearchResponse{
		Query:   page.Query,
		Count:   page.Count,
		Results: results,
		Pages:   page.Pages,
	}
}
