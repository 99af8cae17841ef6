package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/events"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"gorm.io/datatypes"
)

// NotificationDispatcher turns lifecycle events into per-recipient notification
// records. Recipients are looked up in the directory on every event.
type NotificationDispatcher struct {
	repo   repositories.Repository
	guard  DedupGuard
	counts *UnreadCountCache
	logger *slog.Logger
	now    func() time.Time
}

// NewNotificationDispatcher creates a dispatcher. A nil guard falls back to the
// store-backed one; counts may be nil.
func NewNotificationDispatcher(repo repositories.Repository, guard DedupGuard, counts *UnreadCountCache, logger *slog.Logger) *NotificationDispatcher {
	if guard == nil {
		guard = NewStoreDedupGuard(repo.Notification(), DefaultDedupWindow)
	}
	return &NotificationDispatcher{
		repo:   repo,
		guard:  guard,
		counts: counts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// recipientNotice is one notification to be written.
type recipientNotice struct {
	userID           uint
	notificationType models.NotificationType
	message          string
	dedup            bool
}

// HandleLifecycleEvent computes the recipients and writes one record each.
// A failed write is logged and does not stop the remaining recipients.
func (d *NotificationDispatcher) HandleLifecycleEvent(ctx context.Context, event *events.LifecycleEvent) error {
	var (
		notices []recipientNotice
		issue   *models.Issue
		err     error
	)

	switch payload := event.Data.(type) {
	case *events.IssueCreatedEvent:
		issue = payload.Issue
		notices, err = d.createdRecipients(ctx, payload)
	case *events.IssueAssignedEvent:
		issue = payload.Issue
		notices = d.assignedRecipients(payload)
	case *events.IssueStatusChangedEvent:
		issue = payload.Issue
		notices = d.statusChangedRecipients(event.ActorID, payload)
	default:
		d.logger.Debug("Ignoring lifecycle event without notification rules", "event_type", event.Type)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve recipients for %s: %w", event.Type, err)
	}

	metadata := d.metadata(event)

	var errs []error
	created := 0
	for _, notice := range notices {
		ok, err := d.deliver(ctx, issue, notice, metadata)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			created++
		}
	}

	d.logger.Info("Dispatched issue notifications",
		"event_id", event.ID,
		"event_type", event.Type,
		"issue_id", event.IssueID,
		"recipients", len(notices),
		"created", created,
		"failed", len(errs))

	return errors.Join(errs...)
}

func (d *NotificationDispatcher) createdRecipients(ctx context.Context, payload *events.IssueCreatedEvent) ([]recipientNotice, error) {
	issue := payload.Issue

	admins, err := d.repo.Directory().ListUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	var hods []*models.User
	if departmentID := issue.DepartmentID(); departmentID != 0 {
		hods, err = d.repo.Directory().ListUsersByRoleAndDepartment(ctx, models.RoleHOD, departmentID)
		if err != nil {
			return nil, err
		}
	}

	notices := make([]recipientNotice, 0, len(admins)+len(hods))
	for _, admin := range admins {
		notices = append(notices, recipientNotice{
			userID:           admin.ID,
			notificationType: models.NotificationIssueCreated,
			message:          fmt.Sprintf("New issue '%s' has been submitted", issue.Title),
		})
	}
	for _, hod := range hods {
		notices = append(notices, recipientNotice{
			userID:           hod.ID,
			notificationType: models.NotificationNewIssue,
			message:          fmt.Sprintf("New issue '%s' has been submitted in your department", issue.Title),
		})
	}
	return notices, nil
}

func (d *NotificationDispatcher) assignedRecipients(payload *events.IssueAssignedEvent) []recipientNotice {
	issue, assignee := payload.Issue, payload.Assignee

	return []recipientNotice{
		{
			userID:           assignee.ID,
			notificationType: models.NotificationIssueAssigned,
			message:          fmt.Sprintf("Issue '%s' has been assigned to you", issue.Title),
			dedup:            true,
		},
		{
			userID:           issue.StudentID,
			notificationType: models.NotificationIssueAssigned,
			message:          fmt.Sprintf("Your issue '%s' has been assigned to %s", issue.Title, assignee.FullName()),
		},
	}
}

func (d *NotificationDispatcher) statusChangedRecipients(actorID uint, payload *events.IssueStatusChangedEvent) []recipientNotice {
	issue := payload.Issue

	notices := []recipientNotice{{
		userID:           issue.StudentID,
		notificationType: models.NotificationStatusChanged,
		message:          fmt.Sprintf("The status of your issue '%s' has changed to %s", issue.Title, payload.NewStatus),
	}}

	if issue.AssignedToID != nil && *issue.AssignedToID != actorID {
		notices = append(notices, recipientNotice{
			userID:           *issue.AssignedToID,
			notificationType: models.NotificationStatusUpdate,
			message:          fmt.Sprintf("Issue '%s' status changed to %s", issue.Title, payload.NewStatus),
		})
	}
	return notices
}

// deliver writes one notification and reports whether a record was created.
func (d *NotificationDispatcher) deliver(ctx context.Context, issue *models.Issue, notice recipientNotice, metadata datatypes.JSON) (bool, error) {
	now := d.now()

	if notice.dedup {
		acquired, err := d.guard.Acquire(ctx, notice.userID, issue.ID, notice.notificationType, now)
		if err != nil {
			d.logger.Warn("Notification dedup check failed, creating anyway",
				"user_id", notice.userID,
				"issue_id", issue.ID,
				"error", err)
		} else if !acquired {
			d.logger.Debug("Skipping duplicate notification",
				"user_id", notice.userID,
				"issue_id", issue.ID,
				"notification_type", notice.notificationType)
			return false, nil
		}
	}

	issueID := issue.ID
	notification := &models.Notification{
		UserID:           notice.userID,
		IssueID:          &issueID,
		Message:          notice.message,
		NotificationType: notice.notificationType,
		Metadata:         metadata,
		CreatedAt:        now,
	}

	if err := d.repo.Notification().Create(ctx, notification); err != nil {
		if notice.dedup {
			d.guard.Release(ctx, notice.userID, issue.ID, notice.notificationType)
		}
		d.logger.Error("Failed to create notification",
			"user_id", notice.userID,
			"issue_id", issue.ID,
			"notification_type", notice.notificationType,
			"error", err)
		return false, fmt.Errorf("notify user %d: %w", notice.userID, err)
	}
	d.counts.Invalidate(ctx, notice.userID)
	return true, nil
}

func (d *NotificationDispatcher) metadata(event *events.LifecycleEvent) datatypes.JSON {
	meta := map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"actor_id":   event.ActorID,
	}
	if payload, ok := event.Data.(*events.IssueStatusChangedEvent); ok {
		meta["old_status"] = payload.OldStatus
		meta["new_status"] = payload.NewStatus
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
