package repositories

import (
	"errors"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by every repository lookup that matches no row.
var ErrRecordNotFound = gorm.ErrRecordNotFound

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// Repository aggregates the stores the issue service reads and writes.
type Repository interface {
	Directory() DirectoryRepository
	Issue() IssueRepository
	Notification() NotificationRepository
}

// ===== SHARED FILTER STRUCTS =====

type IssueFilters struct {
	StudentID    *uint               `json:"student_id"`
	AssignedToID *uint               `json:"assigned_to_id"`
	DepartmentID *uint               `json:"department_id"`
	CourseID     *uint               `json:"course_id"`
	Status       *models.IssueStatus `json:"status"`
	IssueType    *models.IssueType   `json:"issue_type"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
	SortBy       string              `json:"sort_by"`    // "created_at", "updated_at", "title", "status"
	SortOrder    string              `json:"sort_order"` // "asc", "desc"
}

type NotificationFilters struct {
	Read   *bool                    `json:"read"`
	Type   *models.NotificationType `json:"type"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}
