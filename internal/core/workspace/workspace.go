// Package workspace 串接搜尋、食譜、購物清單與收藏，供 HTTP 層併發使用
package workspace

import (
	"context"
	"math"
	"sync"

	"recipe-finder/internal/core/likes"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/shopping"
	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ResultsPage 一頁搜尋結果
type ResultsPage struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []search.Summary `json:"results"`
	Pages   search.Pages     `json:"pages"`
}

// Workspace 保存目前的搜尋、已選食譜、購物清單與收藏
//
// 遠端呼叫在鎖外進行；較晚發起的搜尋或選取完成後，較早的結果不會覆蓋它。
type Workspace struct {
	mu sync.Mutex

	searcher search.Searcher
	recipes  *recipe.Service
	list     *shopping.List
	likes    *likes.Store
	pageSize int

	session   *search.Session
	current   *recipe.Recipe
	searchSeq uint64
	recipeSeq uint64
}

// New 創建工作區
func New(searcher search.Searcher, recipes *recipe.Service, list *shopping.List, store *likes.Store, pageSize int) *Workspace {
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	return &Workspace{
		searcher: searcher,
		recipes:  recipes,
		list:     list,
		likes:    store,
		pageSize: pageSize,
	}
}

// Search 執行新搜尋並回傳第一頁；失敗時保留先前的搜尋
func (w *Workspace) Search(ctx context.Context, query string) (ResultsPage, error) {
	session := search.NewSession(query)
	if session.Query == "" {
		return ResultsPage{}, common.NewValidationError("query is required")
	}

	w.mu.Lock()
	w.searchSeq++
	seq := w.searchSeq
	w.mu.Unlock()

	if err := session.GetResults(ctx, w.searcher); err != nil {
		return ResultsPage{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq == w.searchSeq {
		w.session = session
	} else {
		common.LogDebug("Stale search result discarded", zap.String("query", session.Query))
	}
	return page(session, 1, w.pageSize), nil
}

// Results 目前搜尋的第 p 頁；size <= 0 時使用設定的每頁數量
func (w *Workspace) Results(p, size int) (ResultsPage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session == nil || !w.session.Loaded() {
		return ResultsPage{}, common.ErrNoActiveSearch
	}
	if size <= 0 {
		size = w.pageSize
	}
	return page(w.session, p, size), nil
}

func page(s *search.Session, p, size int) ResultsPage {
	return ResultsPage{
		Query:   s.Query,
		Count:   len(s.Results),
		Results: s.Page(p, size),
		Pages:   s.Pagination(p, size),
	}
}

// SelectRecipe 載入並設為目前食譜；失敗時保留先前的食譜
func (w *Workspace) SelectRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	w.mu.Lock()
	w.recipeSeq++
	seq := w.recipeSeq
	w.mu.Unlock()

	r, err := w.recipes.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq == w.recipeSeq {
		w.current = r
	}
	return r.Clone(), nil
}

// CurrentRecipe 目前食譜的快照
func (w *Workspace) CurrentRecipe() (*recipe.Recipe, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil, common.ErrNoActiveRecipe
	}
	return w.current.Clone(), nil
}

// UpdateServings 調整目前食譜份量
func (w *Workspace) UpdateServings(dir recipe.Direction) (*recipe.Recipe, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil, common.ErrNoActiveRecipe
	}
	if err := w.current.UpdateServings(dir); err != nil {
		return nil, err
	}
	return w.current.Clone(), nil
}

// AddRecipeToList 將目前食譜的所有食材加入購物清單
func (w *Workspace) AddRecipeToList() ([]shopping.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil, common.ErrNoActiveRecipe
	}
	added := w.list.AddIngredients(w.current.Ingredients)
	metrics.ShoppingListItems.Set(float64(w.list.Len()))

	common.LogInfo("Recipe added to shopping list",
		zap.String("recipe_id", w.current.ID),
		zap.Int("items", len(added)),
	)
	return added, nil
}

// AddListItem 手動新增購物清單項目
func (w *Workspace) AddListItem(count float64, unit, name string) (shopping.Item, error) {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		return shopping.Item{}, common.NewValidationError("count must be a finite number")
	}
	if name == "" {
		return shopping.Item{}, common.NewValidationError("ingredient is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	item := w.list.AddItem(count, unit, name)
	metrics.ShoppingListItems.Set(float64(w.list.Len()))
	return item, nil
}

// ShoppingList 購物清單快照；merged 為 true 時合併相同食材與單位
func (w *Workspace) ShoppingList(merged bool) []shopping.Item {
	w.mu.Lock()
	defer w.mu.Unlock()

	if merged {
		return w.list.Merged()
	}
	return w.list.Items()
}

// DeleteListItem 刪除購物清單項目；不存在時不做任何事
func (w *Workspace) DeleteListItem(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	deleted := w.list.DeleteItem(id)
	metrics.ShoppingListItems.Set(float64(w.list.Len()))
	return deleted
}

// UpdateListItem 修改購物清單項目數量
func (w *Workspace) UpdateListItem(id string, count float64) (shopping.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.list.Get(id); !ok {
		return shopping.Item{}, common.ErrItemNotFound
	}
	if !w.list.UpdateCount(id, count) {
		return shopping.Item{}, common.NewValidationError("count must be a finite number")
	}
	item, _ := w.list.Get(id)
	return item, nil
}

// ToggleLike 切換目前食譜的收藏狀態，回傳切換後是否已收藏
//
// 持久化失敗時記憶體狀態仍已切換，並回傳 PersistenceError。
func (w *Workspace) ToggleLike(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return false, common.ErrNoActiveRecipe
	}

	r := w.current
	if w.likes.IsLiked(r.ID) {
		return false, w.likes.DeleteLike(ctx, r.ID)
	}
	_, err := w.likes.AddLike(ctx, r.ID, r.Title, r.Author, r.Image)
	return true, err
}

// IsLiked 是否已收藏
func (w *Workspace) IsLiked(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.likes.IsLiked(id)
}

// Likes 收藏清單快照
func (w *Workspace) Likes() []likes.Like {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.likes.Likes()
}

// DeleteLike 取消收藏；不存在時不做任何事
func (w *Workspace) DeleteLike(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.likes.DeleteLike(ctx, id)
}

// RestoreLikes 從儲存還原收藏；失敗時以空集合繼續並回傳錯誤供記錄
func (w *Workspace) RestoreLikes(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.likes.ReadStorage(ctx)
	common.LogInfo("Likes restored", zap.Int("likes", w.likes.NumLikes()))
	return err
}
