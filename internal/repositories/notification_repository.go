package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, filters NotificationFilters) ([]*models.Notification, int64, error)

	MarkRead(ctx context.Context, id uint, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID uint, readAt time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// ExistsSince reports whether a notification of the given type was stored
	// for (userID, issueID) at or after since.
	ExistsSince(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, since time.Time) (bool, error)
}
