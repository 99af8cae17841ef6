package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
)

const defaultNotificationLimit = 50

type notificationService struct {
	repo   repositories.Repository
	counts *UnreadCountCache
	logger *slog.Logger
}

// NewNotificationService creates the inbox service. counts may be nil.
func NewNotificationService(repo repositories.Repository, counts *UnreadCountCache, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		counts: counts,
		logger: logger,
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, principal *models.User, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthorized
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultNotificationLimit
	}

	notifications, total, err := s.repo.Notification().ListByUser(ctx, principal.ID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead flips the read flag. Only the recipient may do it; staff and admins
// get no override here.
func (s *notificationService) MarkRead(ctx context.Context, principal *models.User, notificationID uint) (*models.Notification, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrNotificationNotFound, notificationID)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != principal.ID {
		return nil, NewPermissionError(principal.ID, notificationID, "notification", "mark_read", "not the recipient of this notification")
	}

	if notification.Read {
		return notification, nil
	}

	now := time.Now().UTC()
	if err := s.repo.Notification().MarkRead(ctx, notificationID, now); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	s.counts.Invalidate(ctx, principal.ID)
	notification.Read = true
	notification.ReadAt = &now

	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, principal *models.User) (int64, error) {
	if principal == nil {
		return 0, ErrUnauthorized
	}

	updated, err := s.repo.Notification().MarkAllRead(ctx, principal.ID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	s.counts.Invalidate(ctx, principal.ID)

	s.logger.Info("Marked all notifications as read", "user_id", principal.ID, "count", updated)
	return updated, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, principal *models.User) (int64, error) {
	if principal == nil {
		return 0, ErrUnauthorized
	}

	if count, ok := s.counts.Get(ctx, principal.ID); ok {
		return count, nil
	}

	count, err := s.repo.Notification().CountUnread(ctx, principal.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	s.counts.Set(ctx, principal.ID, count)
	return count, nil
}
