package events

import (
	"time"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the type of issue lifecycle event
type EventType string

const (
	EventIssueCreated       EventType = "issue.created"
	EventIssueAssigned      EventType = "issue.assigned"
	EventIssueStatusChanged EventType = "issue.status_changed"
)

const (
	eventSource  = "issue-service"
	eventVersion = "1.0"
)

// LifecycleEvent is the envelope for every transition the issue lifecycle emits.
type LifecycleEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	ActorID   uint                   `json:"actor_id"`
	IssueID   uint                   `json:"issue_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// IssueCreatedEvent carries the newly stored issue with its course and department resolved.
type IssueCreatedEvent struct {
	Issue *models.Issue `json:"issue"`
}

type IssueAssignedEvent struct {
	Issue              *models.Issue      `json:"issue"`
	Assignee           *models.User       `json:"assignee"`
	PreviousAssigneeID *uint              `json:"previous_assignee_id,omitempty"`
	PreviousStatus     models.IssueStatus `json:"previous_status"`
}

type IssueStatusChangedEvent struct {
	Issue     *models.Issue      `json:"issue"`
	OldStatus models.IssueStatus `json:"old_status"`
	NewStatus models.IssueStatus `json:"new_status"`
}

func NewIssueCreatedEvent(actorID uint, issue *models.Issue) *LifecycleEvent {
	return newLifecycleEvent(EventIssueCreated, actorID, issue.ID, &IssueCreatedEvent{Issue: issue})
}

func NewIssueAssignedEvent(actorID uint, issue *models.Issue, assignee *models.User, previousAssigneeID *uint, previousStatus models.IssueStatus) *LifecycleEvent {
	return newLifecycleEvent(EventIssueAssigned, actorID, issue.ID, &IssueAssignedEvent{
		Issue:              issue,
		Assignee:           assignee,
		PreviousAssigneeID: previousAssigneeID,
		PreviousStatus:     previousStatus,
	})
}

func NewIssueStatusChangedEvent(actorID uint, issue *models.Issue, oldStatus, newStatus models.IssueStatus) *LifecycleEvent {
	return newLifecycleEvent(EventIssueStatusChanged, actorID, issue.ID, &IssueStatusChangedEvent{
		Issue:     issue,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}

func newLifecycleEvent(eventType EventType, actorID, issueID uint, data interface{}) *LifecycleEvent {
	return &LifecycleEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		ActorID:   actorID,
		IssueID:   issueID,
		Data:      data,
		Metadata:  make(map[string]interface{}),
	}
}
