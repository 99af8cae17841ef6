package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"gorm.io/gorm"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Omit("User", "Issue").Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := n.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	query := n.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if filters.Read != nil {
		query = query.Where("read = ?", *filters.Read)
	}
	if filters.Type != nil {
		query = query.Where("notification_type = ?", *filters.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "notifications", nil, "", "desc", filters.Limit, filters.Offset)

	var notifications []*models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id uint, readAt time.Time) error {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": readAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, userID uint, readAt time.Time) (int64, error) {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": readAt,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (n *NotificationPostgreSQL) ExistsSince(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, since time.Time) (bool, error) {
	var count int64
	err := existsSinceQuery(n.db.WithContext(ctx), userID, issueID, notificationType, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// existsSinceQuery matches records created at or after since. The bound is
// inclusive so a record exactly one window old still counts.
func existsSinceQuery(db *gorm.DB, userID, issueID uint, notificationType models.NotificationType, since time.Time) *gorm.DB {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND issue_id = ? AND notification_type = ? AND created_at >= ?",
			userID, issueID, notificationType, since).
		Limit(1)
}
