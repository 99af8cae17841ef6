package repositories

import (
	"context"

	"github.com/SAP-F-2025/issue-service/internal/models"
)

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error

	// GetByID loads the student, the assignee and the course with its department.
	GetByID(ctx context.Context, id uint) (*models.Issue, error)

	// Update persists the mutable lifecycle fields: status and assignee.
	Update(ctx context.Context, issue *models.Issue) error

	List(ctx context.Context, filters IssueFilters) ([]*models.Issue, int64, error)
}
