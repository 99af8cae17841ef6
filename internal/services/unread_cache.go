package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/cache"
)

const defaultUnreadCountTTL = time.Minute

// UnreadCountCache keeps each user's unread notification count in the cache.
// A nil *UnreadCountCache caches nothing.
type UnreadCountCache struct {
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewUnreadCountCache(c cache.CacheService, ttl time.Duration, logger *slog.Logger) *UnreadCountCache {
	if ttl <= 0 {
		ttl = defaultUnreadCountTTL
	}
	return &UnreadCountCache{cache: c, ttl: ttl, logger: logger}
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("notification:unread:%d", userID)
}

func (u *UnreadCountCache) Get(ctx context.Context, userID uint) (int64, bool) {
	if u == nil {
		return 0, false
	}

	var count int64
	if err := u.cache.Get(ctx, unreadCountKey(userID), &count); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			u.logger.Warn("Failed to read cached unread count", "user_id", userID, "error", err)
		}
		return 0, false
	}
	return count, true
}

func (u *UnreadCountCache) Set(ctx context.Context, userID uint, count int64) {
	if u == nil {
		return
	}
	if err := u.cache.Set(ctx, unreadCountKey(userID), count, u.ttl); err != nil {
		u.logger.Warn("Failed to cache unread count", "user_id", userID, "error", err)
	}
}

// Invalidate drops the cached count after the user's inbox changed.
func (u *UnreadCountCache) Invalidate(ctx context.Context, userID uint) {
	if u == nil {
		return
	}
	if err := u.cache.Delete(ctx, unreadCountKey(userID)); err != nil {
		u.logger.Warn("Failed to invalidate unread count", "user_id", userID, "error", err)
	}
}
