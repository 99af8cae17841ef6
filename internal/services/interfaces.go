package services

import (
	"context"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
)

// Every operation takes the already-authenticated principal; the services
// authorize against it before touching the store.

type IssueService interface {
	CreateIssue(ctx context.Context, principal *models.User, req *CreateIssueRequest) (*models.Issue, error)
	GetIssue(ctx context.Context, principal *models.User, issueID uint) (*models.Issue, error)
	ListIssues(ctx context.Context, principal *models.User, filters repositories.IssueFilters) ([]*models.Issue, int64, error)
	ListStaffIssues(ctx context.Context, principal *models.User, staffID uint, filters repositories.IssueFilters) ([]*models.Issue, int64, error)

	UpdateStatus(ctx context.Context, principal *models.User, issueID uint, status string) (*models.Issue, error)

	// AssignIssue serves both flows: staff and admins assign anywhere, HODs
	// only within their own department.
	AssignIssue(ctx context.Context, principal *models.User, issueID, assigneeID uint) (*models.Issue, error)
	AssignDepartmentIssue(ctx context.Context, principal *models.User, departmentID, issueID, assigneeID uint) (*models.Issue, error)
}

type DepartmentService interface {
	GetDepartment(ctx context.Context, principal *models.User, departmentID uint) (*models.Department, error)
	ListDepartmentIssues(ctx context.Context, principal *models.User, departmentID uint, filters repositories.IssueFilters) ([]*models.Issue, int64, error)
	ListDepartmentStaff(ctx context.Context, principal *models.User, departmentID uint) ([]*models.User, error)
	ListDepartmentCourses(ctx context.Context, principal *models.User, departmentID uint) ([]*models.Course, error)
	GetUserDepartment(ctx context.Context, principal *models.User, userID uint) (*models.Department, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, principal *models.User, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, principal *models.User, notificationID uint) (*models.Notification, error)
	MarkAllRead(ctx context.Context, principal *models.User) (int64, error)
	UnreadCount(ctx context.Context, principal *models.User) (int64, error)
}

type ExportService interface {
	ExportDepartmentIssues(ctx context.Context, principal *models.User, departmentID uint) (*ExportResult, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type CreateIssueRequest struct {
	CourseID    uint   `json:"course" validate:"required"`
	Title       string `json:"title" validate:"required,issue_title"`
	Description string `json:"description" validate:"required,max=5000"`
	IssueType   string `json:"issue_type" validate:"required,issue_type"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AssignIssueRequest struct {
	UserID uint `json:"user_id"`
}

type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	RowCount    int
}
