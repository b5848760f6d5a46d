package recipe

import (
	"fmt"

	"recipe-finder/internal/core/ingredient"
	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Direction 份量調整方向
type Direction string

const (
	Increase Direction = "inc"
	Decrease Direction = "dec"
)

// ErrServingsFloor 份量不可低於 1
var ErrServingsFloor = common.NewValidationError("servings cannot go below 1")

// Estimates 來源資料缺漏時使用的推算值
type Estimates struct {
	DefaultServings      int
	MinutesPerIngredient int
}

// DefaultEstimates 預設推算值：4 人份、每項食材 15 分鐘
func DefaultEstimates() Estimates {
	return Estimates{
		DefaultServings:      4,
		MinutesPerIngredient: 15,
	}
}

// Source 遠端食譜詳情；Servings 與 PrepTimeMinutes 為 0 表示未提供
type Source struct {
	Title           string
	Author          string
	Image           string
	SourceURL       string
	Servings        int
	PrepTimeMinutes int
	IngredientLines []string
}

// Recipe 一份已選取的食譜及其可縮放的食材清單
type Recipe struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Image           string            `json:"image"`
	SourceURL       string            `json:"source_url"`
	Servings        int               `json:"servings"`
	PrepTimeMinutes int               `json:"prep_time_minutes"`
	RawIngredients  []string          `json:"raw_ingredients"`
	Ingredients     []ingredient.Line `json:"ingredients"`

	sourceServings int
	sourcePrepTime int
	estimates      Estimates
}

// New 以遠端資料建立食譜，尚未解析食材
func New(id string, src *Source, est Estimates) *Recipe {
	raw := make([]string, len(src.IngredientLines))
	copy(raw, src.IngredientLines)

	return &Recipe{
		ID:             id,
		Title:          src.Title,
		Author:         src.Author,
		Image:          src.Image,
		SourceURL:      src.SourceURL,
		RawIngredients: raw,
		sourceServings: src.Servings,
		sourcePrepTime: src.PrepTimeMinutes,
		estimates:      est,
	}
}

// CalcServings 來源有份量時採用，否則使用預設份量
func (r *Recipe) CalcServings() {
	switch {
	case r.sourceServings > 0:
		r.Servings = r.sourceServings
	case r.estimates.DefaultServings > 0:
		r.Servings = r.estimates.DefaultServings
	default:
		r.Servings = 1
	}
}

// CalcTime 來源有準備時間時採用，否則以食材數量推算
func (r *Recipe) CalcTime() {
	if r.sourcePrepTime > 0 {
		r.PrepTimeMinutes = r.sourcePrepTime
		return
	}
	r.PrepTimeMinutes = len(r.Ingredients) * r.estimates.MinutesPerIngredient
}

// ParseIngredients 依序解析原始食材字串，重複呼叫結果相同
func (r *Recipe) ParseIngredients() {
	lines := make([]ingredient.Line, len(r.RawIngredients))
	warnings := 0
	for i, raw := range r.RawIngredients {
		line, warning := ingredient.ParseDetailed(raw)
		if warning != nil {
			warnings++
			metrics.ParseWarnings.Inc()
			common.LogDebug("Ingredient parsed with warning",
				zap.String("recipe_id", r.ID),
				zap.String("raw", raw),
				zap.String("reason", warning.Reason),
			)
		}
		lines[i] = line
	}
	r.Ingredients = lines

	if warnings > 0 {
		common.LogWarn("Some ingredients could not be fully parsed",
			zap.String("recipe_id", r.ID),
			zap.Int("warnings", warnings),
			zap.Int("ingredients", len(lines)),
		)
	}
}

// UpdateServings 份量加一或減一，並等比例調整食材數量
func (r *Recipe) UpdateServings(dir Direction) error {
	switch dir {
	case Increase:
		return r.ScaleTo(r.Servings + 1)
	case Decrease:
		if r.Servings <= 1 {
			return ErrServingsFloor
		}
		return r.ScaleTo(r.Servings - 1)
	default:
		return common.NewValidationError(fmt.Sprintf("unknown servings direction %q", dir))
	}
}

// ScaleTo 將份量調整為 servings，數量為 nil 的食材保持不變
func (r *Recipe) ScaleTo(servings int) error {
	if servings < 1 {
		return ErrServingsFloor
	}
	if r.Servings < 1 {
		r.CalcServings()
	}

	old := float64(r.Servings)
	for i := range r.Ingredients {
		if c := r.Ingredients[i].Count; c != nil {
			scaled := *c * float64(servings) / old
			r.Ingredients[i].Count = &scaled
		}
	}
	r.Servings = servings

	return nil
}

// Clone 深拷貝，供 API 層輸出快照
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.RawIngredients = append([]string(nil), r.RawIngredients...)
	out.Ingredients = make([]ingredient.Line, len(r.Ingredients))
	for i, line := range r.Ingredients {
		out.Ingredients[i] = line
		if line.Count != nil {
			c := *line.Count
			out.Ingredients[i].Count = &c
		}
	}
	return &out
}
