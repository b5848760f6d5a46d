package common

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SearchError 遠端搜尋失敗或回應格式錯誤
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q failed: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// RecipeFetchError 遠端食譜詳情取得失敗或回應格式錯誤
type RecipeFetchError struct {
	ID  string
	Err error
}

func (e *RecipeFetchError) Error() string {
	return fmt.Sprintf("fetch recipe %q failed: %v", e.ID, e.Err)
}

func (e *RecipeFetchError) Unwrap() error {
	return e.Err
}

// ParseWarning 食材字串無法完整解析，僅保留名稱；不會向上傳遞為失敗
type ParseWarning struct {
	Raw    string
	Reason string
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("ingredient %q parsed as name only: %s", w.Raw, w.Reason)
}

// PersistenceError 持久化儲存讀寫失敗
type PersistenceError struct {
	Op  string // "read" 或 "write"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeInternalError   = "INTERNAL_ERROR"    // 500
	ErrCodeGatewayTimeout  = "GATEWAY_TIMEOUT"   // 504

	// 業務錯誤
	ErrCodeSearchFailed      = "SEARCH_FAILED"
	ErrCodeRecipeFetchFailed = "RECIPE_FETCH_FAILED"
	ErrCodePersistenceFailed = "PERSISTENCE_FAILED"
)

// 預定義錯誤
var (
	ErrNoActiveSearch = NewError(ErrCodeNotFound, "尚未進行搜尋", http.StatusNotFound, nil)
	ErrNoActiveRecipe = NewError(ErrCodeNotFound, "尚未選擇食譜", http.StatusNotFound, nil)
	ErrItemNotFound   = NewError(ErrCodeNotFound, "購物清單項目不存在", http.StatusNotFound, nil)
	ErrCacheFull      = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheMiss      = NewError("CACHE_MISS", "緩存未命中", http.StatusNotFound, nil)
)

// StatusFromError 將錯誤對應為 HTTP 狀態碼與錯誤代碼
func StatusFromError(err error) (int, string) {
	var (
		ce *CustomError
		se *SearchError
		fe *RecipeFetchError
		pe *PersistenceError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Status, ce.Code
	case IsValidationError(err):
		return http.StatusBadRequest, ErrCodeInvalidRequest
	case errors.As(err, &se):
		return http.StatusBadGateway, ErrCodeSearchFailed
	case errors.As(err, &fe):
		return http.StatusBadGateway, ErrCodeRecipeFetchFailed
	case errors.As(err, &pe):
		return http.StatusInternalServerError, ErrCodePersistenceFailed
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
