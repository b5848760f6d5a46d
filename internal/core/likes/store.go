// Package likes 保存使用者收藏的食譜，並寫入持久化儲存
package likes

import (
	"context"
	"errors"

	"recipe-finder/internal/pkg/common"
	"recipe-finder/internal/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultKey 收藏清單在儲存後端中的鍵
const DefaultKey = "likes"

// Like 收藏的食譜摘要，以 ID 作為識別
type Like struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image"`
}

// Storage 鍵值儲存後端
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store 去重且保持順序的收藏集合；每次變更都會同步寫入儲存
type Store struct {
	storage Storage
	key     string
	likes   []Like
}

// NewStore 創建收藏集合，key 為空時使用 DefaultKey
func NewStore(storage Storage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage: storage,
		key:     key,
		likes:   []Like{},
	}
}

// AddLike 新增收藏；相同 ID 已存在時直接回傳既有項目
//
// 寫入失敗時記憶體中的新增仍然保留，並回傳 PersistenceError。
func (s *Store) AddLike(ctx context.Context, id, title, author, image string) (Like, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.likes[i], nil
	}

	like := Like{ID: id, Title: title, Author: author, Image: image}
	s.likes = append(s.likes, like)
	metrics.Likes.Set(float64(len(s.likes)))

	return like, s.Persist(ctx)
}

// DeleteLike 移除收藏；ID 不存在時不做任何事
func (s *Store) DeleteLike(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.likes = append(s.likes[:i], s.likes[i+1:]...)
	metrics.Likes.Set(float64(len(s.likes)))

	return s.Persist(ctx)
}

// IsLiked 是否已收藏
func (s *Store) IsLiked(id string) bool {
	return s.indexOf(id) >= 0
}

// NumLikes 收藏數量
func (s *Store) NumLikes() int {
	return len(s.likes)
}

// Likes 依收藏順序回傳副本
func (s *Store) Likes() []Like {
	out := make([]Like, len(s.likes))
	copy(out, s.likes)
	return out
}

// Persist 將完整收藏清單序列化為 JSON 陣列寫入儲存
func (s *Store) Persist(ctx context.Context) error {
	data, err := common.ToJSON(s.likes)
	if err == nil {
		err = s.storage.Set(ctx, s.key, data)
	}
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("write").Inc()
		common.LogError("Failed to persist likes",
			zap.String("key", s.key),
			zap.Int("likes", len(s.likes)),
			zap.Error(err),
		)
		return &common.PersistenceError{Op: "write", Key: s.key, Err: err}
	}
	return nil
}

// ReadStorage 從儲存還原收藏清單並整體取代記憶體狀態
//
// 鍵不存在時為空集合；讀取失敗或內容損壞時同樣降級為空集合，
// 並回傳 PersistenceError 供呼叫端記錄。
func (s *Store) ReadStorage(ctx context.Context) error {
	likes, err := s.read(ctx)
	if err != nil {
		s.likes = []Like{}
		metrics.Likes.Set(0)
		metrics.PersistenceErrors.WithLabelValues("read").Inc()
		common.LogWarn("Stored likes unreadable, starting empty",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return &common.PersistenceError{Op: "read", Key: s.key, Err: err}
	}

	s.likes = likes
	metrics.Likes.Set(float64(len(s.likes)))
	return nil
}

func (s *Store) read(ctx context.Context) ([]Like, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Like{}, nil
	}

	var stored []Like
	if err := common.ParseJSON(raw, &stored); err != nil {
		return nil, err
	}

	// 儲存內容若有重複 ID，保留第一筆
	likes := make([]Like, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, like := range stored {
		if like.ID == "" {
			return nil, errors.New("stored like without id")
		}
		if seen[like.ID] {
			continue
		}
		seen[like.ID] = true
		likes = append(likes, like)
	}
	return likes, nil
}

func (s *Store) indexOf(id string) int {
	for i, like := range s.likes {
		if like.ID == id {
			return i
		}
	}
	return -1
}
