// Package search 保存一次遠端食譜搜尋的結果並提供分頁
package search

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize 每頁結果數
	DefaultPageSize = 10
	// DefaultTitleLimit 結果列表標題的最大字數
	DefaultTitleLimit = 17
)

// Summary 搜尋結果中的食譜摘要
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Image     string `json:"image"`
	SourceURL string `json:"source_url,omitempty"`
}

// Searcher 遠端搜尋來源
type Searcher interface {
	Search(ctx context.Context, query string) ([]Summary, error)
}

// Session 一次搜尋的查詢字串與結果；新的查詢應建立新的 Session
type Session struct {
	Query   string
	Results []Summary
	loaded  bool
}

// Pages 分頁導覽資訊，Prev/Next 為 0 表示沒有上一頁/下一頁
type Pages struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Prev    int `json:"prev,omitempty"`
	Next    int `json:"next,omitempty"`
}

// NewSession 創建搜尋
func NewSession(query string) *Session {
	return &Session{Query: strings.TrimSpace(query)}
}

// GetResults 執行一次遠端搜尋；失敗時回傳 SearchError 且不保留任何結果
func (s *Session) GetResults(ctx context.Context, searcher Searcher) error {
	start := time.Now()
	results, err := searcher.Search(ctx, s.Query)
	metrics.SearchRequests.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.Results = nil
		s.loaded = false

		var searchErr *common.SearchError
		if !errors.As(err, &searchErr) {
			err = &common.SearchError{Query: s.Query, Err: err}
		}
		common.LogError("Search failed",
			zap.String("query", s.Query),
			zap.Error(err),
		)
		return err
	}

	if results == nil {
		results = []Summary{}
	}
	s.Results = results
	s.loaded = true

	common.LogInfo("Search completed",
		zap.String("query", s.Query),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Loaded 是否已成功取得結果
func (s *Session) Loaded() bool {
	return s.loaded
}

// Page 回傳第 page 頁（從 1 開始）；超出範圍時回傳空切片
func (s *Session) Page(page, size int) []Summary {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return []Summary{}
	}

	start := (page - 1) * size
	if start >= len(s.Results) {
		return []Summary{}
	}
	end := page * size
	if end > len(s.Results) {
		end = len(s.Results)
	}

	out := make([]Summary, end-start)
	copy(out, s.Results[start:end])
	return out
}

// PageCount 總頁數，沒有結果時為 0
func (s *Session) PageCount(size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (len(s.Results) + size - 1) / size
}

// Pagination 第 page 頁的上一頁/下一頁資訊
func (s *Session) Pagination(page, size int) Pages {
	total := s.PageCount(size)
	p := Pages{Current: page, Total: total}
	if page > 1 && page <= total {
		p.Prev = page - 1
	}
	if page >= 1 && page < total {
		p.Next = page + 1
	}
	return p
}

// LimitTitle 依單字邊界截斷標題並加上 "..."
func LimitTitle(title string, limit int) string {
	if limit <= 0 {
		limit = DefaultTitleLimit
	}
	if utf8.RuneCountInString(title) <= limit {
		return title
	}

	var (
		words []string
		acc   int
	)
	for _, word := range strings.Split(title, " ") {
		if acc+utf8.RuneCountInString(word) <= limit {
			words = append(words, word)
		}
		acc += utf8.RuneCountInString(word)
	}
	return strings.Join(words, " ") + "..."
}
