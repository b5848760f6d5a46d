// Package ingredient 將自由格式的食材描述解析為 數量/單位/名稱。
package ingredient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Line 解析後的食材行；Count 為 nil 表示原文沒有數量
type Line struct {
	Count      *float64 `json:"count"`
	Unit       string   `json:"unit"`
	Ingredient string   `json:"ingredient"`
}

// fractionSlash 為 NFKD 分解分數字元後使用的斜線 (U+2044)
const fractionSlash = "⁄"

var (
	parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	decimalPattern       = regexp.MustCompile(`^(\d+(\.\d+)?|\.\d+)$`)
	fractionPattern      = regexp.MustCompile(`^(\d+)[/⁄](\d+)$`)

	// 單位同義詞 -> 標準縮寫
	unitAliases = map[string]string{
		"tbsp": "tbsp", "tbsps": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tbls": "tbsp",
		"tablespoon": "tbsp", "tablespoons": "tbsp",
		"tsp": "tsp", "tsps": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
		"cup": "cup", "cups": "cup",
		"g": "g", "gr": "g", "gram": "g", "grams": "g", "gramme": "g", "grammes": "g",
		"kg": "kg", "kgs": "kg", "kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
		"mg": "mg", "milligram": "mg", "milligrams": "mg",
		"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
		"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
		"oz": "oz", "ounce": "oz", "ounces": "oz",
		"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
		"pinch": "pinch", "pinches": "pinch",
		"clove": "clove", "cloves": "clove",
		"dash": "dash", "dashes": "dash",
		"can": "can", "cans": "can",
		"pkg": "pkg", "package": "pkg", "packages": "pkg",
	}

	// 名稱清理時移除的填充詞
	stopwords = map[string]bool{
		"of": true, "fresh": true, "freshly": true, "chopped": true,
		"finely": true, "roughly": true, "coarsely": true, "minced": true,
		"diced": true, "sliced": true, "grated": true, "peeled": true,
		"to": true, "taste": true,
	}

	articles = map[string]bool{"a": true, "an": true}

	// 分隔範圍上下限的詞："4 - 6"、"4 to 6"
	rangeSeparators = map[string]bool{"-": true, "–": true, "to": true}
)

// Parse 解析食材描述，永不失敗；無法解析時整段文字作為名稱
func Parse(raw string) Line {
	line, warning := ParseDetailed(raw)
	if warning != nil {
		metrics.ParseWarnings.Inc()
		common.LogDebug("Ingredient parsed with warning",
			zap.String("raw", raw),
			zap.String("reason", warning.Reason),
		)
	}
	return line
}

// ParseDetailed 與 Parse 相同，另外回傳降級解析的警告
func ParseDetailed(raw string) (Line, *common.ParseWarning) {
	text := parentheticalPattern.ReplaceAllString(raw, " ")
	tokens := strings.Fields(text)

	var (
		line    Line
		warning *common.ParseWarning
	)

	if len(tokens) > 0 {
		if n, ok := parseQuantity(tokens[0]); ok {
			tokens = tokens[1:]
			// 帶分數："1 1/2"、"1 ½"
			if len(tokens) > 0 && n == math.Trunc(n) {
				if f, ok := parseProperFraction(tokens[0]); ok {
					n += f
					tokens = tokens[1:]
				}
			}
			// 有空格的範圍只保留下限
			if len(tokens) > 1 && rangeSeparators[strings.ToLower(tokens[0])] {
				if _, ok := parseQuantity(tokens[1]); ok {
					tokens = tokens[2:]
				}
			}
			line.Count = &n
		} else if articles[strings.ToLower(tokens[0])] && len(tokens) > 1 {
			tokens = tokens[1:]
		} else if startsWithDigit(tokens[0]) {
			warning = &common.ParseWarning{Raw: raw, Reason: "unparsable quantity " + strconv.Quote(tokens[0])}
		}
	}

	var unitToken string
	if len(tokens) > 0 {
		if unit, ok := lookupUnit(tokens[0]); ok {
			line.Unit = unit
			unitToken = tokens[0]
			tokens = tokens[1:]
		}
	}

	line.Ingredient = cleanName(tokens)
	if line.Ingredient == "" && line.Count != nil && line.Unit != "" {
		// "2 cups"：保留數量與單位，以原文單位作為名稱
		line.Ingredient = cleanName([]string{strings.TrimRight(unitToken, ".,")})
		return line, &common.ParseWarning{Raw: raw, Reason: "no ingredient name, unit used as name"}
	}
	if line.Ingredient == "" {
		return Line{Ingredient: strings.Join(strings.Fields(raw), " ")},
			&common.ParseWarning{Raw: raw, Reason: "no ingredient name"}
	}

	return line, warning
}

// parseQuantity 解析整數、小數、分數、Unicode 分數、帶分數與範圍（取下限）
func parseQuantity(tok string) (float64, bool) {
	if n, ok := parseNumber(tok); ok {
		return n, true
	}

	first, second, found := strings.Cut(tok, "-")
	if !found || first == "" || second == "" {
		return 0, false
	}
	whole, ok := parseNumber(first)
	if !ok {
		return 0, false
	}
	// "1-1/2" 為帶分數
	if whole == math.Trunc(whole) {
		if f, ok := parseProperFraction(second); ok {
			return whole + f, true
		}
	}
	// "4-6" 為範圍
	if _, ok := parseNumber(second); ok {
		return whole, true
	}
	return 0, false
}

// parseNumber 解析單一數值 token
func parseNumber(tok string) (float64, bool) {
	if decimalPattern.MatchString(tok) {
		n, err := strconv.ParseFloat(tok, 64)
		return n, err == nil
	}
	if m := fractionPattern.FindStringSubmatch(tok); m != nil {
		return ratio(m[1], m[2])
	}

	// "½" 或 "1½"
	last, size := utf8.DecodeLastRuneInString(tok)
	frac, ok := vulgarFraction(last)
	if !ok {
		return 0, false
	}
	prefix := tok[:len(tok)-size]
	if prefix == "" {
		return frac, true
	}
	whole, err := strconv.Atoi(prefix)
	if err != nil || whole < 0 {
		return 0, false
	}
	return float64(whole) + frac, true
}

// parseProperFraction 解析介於 0 與 1 之間的分數
func parseProperFraction(tok string) (float64, bool) {
	var (
		f  float64
		ok bool
	)
	if m := fractionPattern.FindStringSubmatch(tok); m != nil {
		f, ok = ratio(m[1], m[2])
	} else if r, size := utf8.DecodeRuneInString(tok); size == len(tok) {
		f, ok = vulgarFraction(r)
	}
	if !ok || f <= 0 || f >= 1 {
		return 0, false
	}
	return f, true
}

// vulgarFraction 透過相容分解取得 ½、¾ 等字元的值
func vulgarFraction(r rune) (float64, bool) {
	if !unicode.Is(unicode.No, r) {
		return 0, false
	}
	num, den, found := strings.Cut(norm.NFKD.String(string(r)), fractionSlash)
	if !found {
		return 0, false
	}
	return ratio(num, den)
}

func ratio(num, den string) (float64, bool) {
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return 0, false
	}
	return float64(n) / float64(d), true
}

func startsWithDigit(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsDigit(r)
}

// lookupUnit 比對單位詞彙（不分大小寫，忽略結尾句點）
func lookupUnit(tok string) (string, bool) {
	unit, ok := unitAliases[strings.ToLower(strings.TrimRight(tok, ".,"))]
	return unit, ok
}

// cleanName 轉小寫並移除填充詞，至少保留最後一個詞
func cleanName(tokens []string) string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if w := strings.Trim(strings.ToLower(tok), ",;:()"); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return ""
	}

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if !stopwords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		kept = words[len(words)-1:]
	}
	return strings.Join(kept, " ")
}
