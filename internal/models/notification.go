package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationIssueCreated  NotificationType = "ISSUE_CREATED"
	NotificationNewIssue      NotificationType = "NEW_ISSUE"
	NotificationIssueAssigned NotificationType = "ISSUE_ASSIGNED"
	NotificationStatusChanged NotificationType = "STATUS_CHANGED"
	NotificationStatusUpdate  NotificationType = "STATUS_UPDATE"
)

// Notification is written only by the dispatcher. The recipient may flip Read;
// nothing else about a record changes after creation.
type Notification struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	UserID           uint             `json:"user_id" gorm:"not null;index:idx_notifications_dedup,priority:1"`
	IssueID          *uint            `json:"issue_id" gorm:"index:idx_notifications_dedup,priority:2"`
	Message          string           `json:"message" gorm:"type:text;not null"`
	NotificationType NotificationType `json:"notification_type" gorm:"not null;size:20;index:idx_notifications_dedup,priority:3"`
	Read             bool             `json:"read" gorm:"default:false;index"`
	ReadAt           *time.Time       `json:"read_at"`
	Metadata         datatypes.JSON   `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_notifications_dedup,priority:4"`

	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Issue *Issue `json:"-" gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
}

func (Notification) TableName() string {
	return "notifications"
}
