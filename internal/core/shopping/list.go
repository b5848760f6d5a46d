// Package shopping 管理由食譜食材組成的購物清單
package shopping

import (
	"math"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/pkg/common"
)

// Item 購物清單項目；ID 於加入時指派，刪除前不變且不重複使用
type Item struct {
	ID         string  `json:"id"`
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// List 依加入順序保存的購物清單；非並發安全
type List struct {
	items []Item
	newID func() string
}

// New 創建空的購物清單
func New() *List {
	return &List{newID: common.GenerateUUID}
}

// AddItem 永遠新增一筆項目，不與相同食材合併
//
// 相同名稱與單位的重複項目會一直累加；需要彙總時使用 Merged。
func (l *List) AddItem(count float64, unit, name string) Item {
	item := Item{
		ID:         l.newID(),
		Count:      count,
		Unit:       unit,
		Ingredient: name,
	}
	l.items = append(l.items, item)
	return item
}

// AddIngredients 將解析後的食材逐一加入；沒有數量的食材以 1 計
func (l *List) AddIngredients(lines []ingredient.Line) []Item {
	added := make([]Item, 0, len(lines))
	for _, line := range lines {
		count := 1.0
		if line.Count != nil {
			count = *line.Count
		}
		added = append(added, l.AddItem(count, line.Unit, line.Ingredient))
	}
	return added
}

// DeleteItem 移除項目；id 不存在時不做任何事
func (l *List) DeleteItem(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// UpdateCount 更新數量；NaN 或無限大會被拒絕，負數允許
func (l *List) UpdateCount(id string, count float64) bool {
	if math.IsNaN(count) || math.IsInf(count, 0) {
		return false
	}
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items[i].Count = count
	return true
}

// Get 依 id 取得項目
func (l *List) Get(id string) (Item, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Item{}, false
	}
	return l.items[i], true
}

// Items 依加入順序回傳項目副本
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Len 項目數量
func (l *List) Len() int {
	return len(l.items)
}

// Merged 將相同食材與單位的項目加總，依首次出現順序排列，不修改清單
//
// 合併後的項目沿用第一筆的 ID。
func (l *List) Merged() []Item {
	type mergeKey struct{ ingredient, unit string }

	index := make(map[mergeKey]int, len(l.items))
	out := make([]Item, 0, len(l.items))
	for _, item := range l.items {
		k := mergeKey{item.Ingredient, item.Unit}
		if i, ok := index[k]; ok {
			out[i].Count += item.Count
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}

func (l *List) indexOf(id string) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
