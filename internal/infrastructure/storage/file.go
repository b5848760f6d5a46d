package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// FileStorage 以單一 JSON 物件檔案保存所有鍵值
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage 創建檔案儲存，必要時建立目錄
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{path: path}, nil
}

// Get 取得值
func (s *FileStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set 設置值；寫入暫存檔後改名，避免寫到一半的檔案
func (s *FileStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		common.LogWarn("Storage file unreadable, rewriting",
			zap.String("path", s.path),
			zap.Error(err),
		)
		values = make(map[string]string)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

// Close 無資源需釋放
func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	values := make(map[string]string)
	if err := common.ParseJSONBytes(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode storage file: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
