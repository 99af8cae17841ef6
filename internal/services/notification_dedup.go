package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/cache"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
)

// DefaultDedupWindow is how long an ISSUE_ASSIGNED notification to the same
// (user, issue) pair suppresses the next one.
const DefaultDedupWindow = 5 * time.Minute

// DedupGuard is a coarse guard against re-entrant delivery. It is not an
// exactly-once guarantee.
type DedupGuard interface {
	// Acquire reports whether a notification for the key may be created at now.
	Acquire(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, now time.Time) (bool, error)
	// Release undoes a successful Acquire when the notification was not stored.
	Release(ctx context.Context, userID, issueID uint, notificationType models.NotificationType)
}

// storeDedupGuard looks for a matching notification created inside the window.
type storeDedupGuard struct {
	notifications repositories.NotificationRepository
	window        time.Duration
}

func NewStoreDedupGuard(notifications repositories.NotificationRepository, window time.Duration) DedupGuard {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &storeDedupGuard{notifications: notifications, window: window}
}

func (g *storeDedupGuard) Acquire(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, now time.Time) (bool, error) {
	exists, err := g.notifications.ExistsSince(ctx, userID, issueID, notificationType, now.Add(-g.window))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (g *storeDedupGuard) Release(ctx context.Context, userID, issueID uint, notificationType models.NotificationType) {}

// redisDedupGuard claims a marker key with SET NX and lets it expire after the window.
type redisDedupGuard struct {
	cache  cache.CacheService
	window time.Duration
}

func NewRedisDedupGuard(c cache.CacheService, window time.Duration) DedupGuard {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &redisDedupGuard{cache: c, window: window}
}

func (g *redisDedupGuard) Acquire(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, now time.Time) (bool, error) {
	return g.cache.SetIfAbsent(ctx, dedupKey(userID, issueID, notificationType), now.Unix(), g.window)
}

func (g *redisDedupGuard) Release(ctx context.Context, userID, issueID uint, notificationType models.NotificationType) {
	_ = g.cache.Delete(ctx, dedupKey(userID, issueID, notificationType))
}

func dedupKey(userID, issueID uint, notificationType models.NotificationType) string {
	return fmt.Sprintf("notification:dedup:%s:%d:%d", notificationType, userID, issueID)
}
