// Package storage 提供收藏清單使用的鍵值儲存後端
package storage

import (
	"context"
	"fmt"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Storage 鍵值儲存；Get 的 bool 表示鍵是否存在
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立儲存後端
func New(cfg *config.Config) (Storage, error) {
	var (
		s   Storage
		err error
	)

	switch cfg.Likes.Backend {
	case "memory":
		s = NewMemoryStorage()
	case "redis":
		s, err = NewRedisStorage(cfg.Redis)
	case "file":
		s, err = NewFileStorage(cfg.Likes.FilePath)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Likes.Backend)
	}
	if err != nil {
		return nil, err
	}

	common.LogInfo("Storage backend initialized",
		zap.String("backend", cfg.Likes.Backend),
	)
	return s, nil
}
