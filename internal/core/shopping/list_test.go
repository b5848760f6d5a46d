package shopping

import (
	"math"
	"testing"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAlwaysAppends(t *testing.T) {
	l := New()

	// 相同參數不合併，每次都新增一筆
	const n = 5
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		item := l.AddItem(2, "cup", "flour")
		assert.False(t, seen[item.ID], "id reused")
		seen[item.ID] = true
	}

	assert.Equal(t, n, l.Len())
	for _, item := range l.Items() {
		assert.Equal(t, 2.0, item.Count)
		assert.Equal(t, "cup", item.Unit)
		assert.Equal(t, "flour", item.Ingredient)
	}
}

func TestItemsPreserveInsertionOrder(t *testing.T) {
	l := New()
	l.AddItem(1, "", "zucchini")
	l.AddItem(1, "", "apple")
	l.AddItem(1, "", "mango")

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"zucchini", "apple", "mango"},
		[]string{items[0].Ingredient, items[1].Ingredient, items[2].Ingredient})
}

func TestDeleteItemTwiceIsNoOp(t *testing.T) {
	l := New()
	keep := l.AddItem(1, "", "eggs")
	drop := l.AddItem(3, "tbsp", "butter")

	assert.True(t, l.DeleteItem(drop.ID))
	assert.False(t, l.DeleteItem(drop.ID))
	assert.False(t, l.DeleteItem("missing"))

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0])
}

func TestUpdateCount(t *testing.T) {
	l := New()
	item := l.AddItem(2, "cup", "rice")

	assert.True(t, l.UpdateCount(item.ID, 3.5))
	got, ok := l.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, 3.5, got.Count)

	// 負數允許
	assert.True(t, l.UpdateCount(item.ID, -1))
	got, _ = l.Get(item.ID)
	assert.Equal(t, -1.0, got.Count)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, l.UpdateCount(item.ID, bad))
		got, _ = l.Get(item.ID)
		assert.Equal(t, -1.0, got.Count)
	}

	assert.False(t, l.UpdateCount("missing", 1))
}

func TestAddIngredientsTreatsMissingCountAsOne(t *testing.T) {
	l := New()
	added := l.AddIngredients([]ingredient.Line{
		{Count: common.Float64Ptr(2), Unit: "cup", Ingredient: "onions"},
		{Count: nil, Unit: "pinch", Ingredient: "salt"},
	})

	require.Len(t, added, 2)
	assert.Equal(t, 2.0, added[0].Count)
	assert.Equal(t, 1.0, added[1].Count)
	assert.Equal(t, "pinch", added[1].Unit)
	assert.Equal(t, 2, l.Len())
}

func TestMergedSumsSameIngredientAndUnit(t *testing.T) {
	l := New()
	first := l.AddItem(2, "cup", "flour")
	l.AddItem(1, "", "eggs")
	l.AddItem(0.5, "cup", "flour")
	l.AddItem(100, "g", "flour")

	merged := l.Merged()
	require.Len(t, merged, 3)
	assert.Equal(t, first.ID, merged[0].ID)
	assert.Equal(t, 2.5, merged[0].Count)
	assert.Equal(t, "eggs", merged[1].Ingredient)
	assert.Equal(t, "g", merged[2].Unit)

	// 清單本身不受影響
	assert.Equal(t, 4, l.Len())
}
