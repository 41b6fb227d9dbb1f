// Package cache provides read access to the per-user recent-view list.
// The list is maintained elsewhere (the catalog's detail pages push to
// it); the user center only ever reads the head of the list.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// HistoryStore reads the most recently viewed SKU ids for a user,
// most-recent-first.
type HistoryStore interface {
	Recent(ctx context.Context, userID string, n int64) ([]string, error)
}

// historyKey matches the key layout used by the catalog when it
// records views.
func historyKey(userID string) string {
	return fmt.Sprintf("history_%s", userID)
}

// RedisHistory is a redis-backed HistoryStore.
type RedisHistory struct {
	rdb *redis.Client
}

// NewRedisHistory creates a RedisHistory against the given server.
func NewRedisHistory(addr, password string, db int) *RedisHistory {
	return &RedisHistory{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Recent returns up to n SKU ids from the head of the user's history
// list.
func (h *RedisHistory) Recent(ctx context.Context, userID string, n int64) ([]string, error) {
	ids, err := h.rdb.LRange(ctx, historyKey(userID), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read view history for user %s: %w", userID, err)
	}
	return ids, nil
}

// Close releases the underlying redis connection.
func (h *RedisHistory) Close() error {
	return h.rdb.Close()
}

// MockHistory is an in-memory HistoryStore for development and tests.
type MockHistory struct {
	lists map[string][]string
	mu    sync.RWMutex
}

// NewMockHistory creates an empty MockHistory.
func NewMockHistory() *MockHistory {
	return &MockHistory{
		lists: make(map[string][]string),
	}
}

// Push records a view at the head of the user's list, the way the
// catalog would.
func (h *MockHistory) Push(userID, skuID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lists[userID] = append([]string{skuID}, h.lists[userID]...)
}

// Recent returns up to n SKU ids, most-recent-first.
func (h *MockHistory) Recent(_ context.Context, userID string, n int64) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	list := h.lists[userID]
	if int64(len(list)) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}
