package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"gorm.io/gorm"
)

var issueSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"status":     true,
}

type IssuePostgreSQL struct {
	db *gorm.DB
}

func NewIssuePostgreSQL(db *gorm.DB) repositories.IssueRepository {
	return &IssuePostgreSQL{db: db}
}

func (i *IssuePostgreSQL) Create(ctx context.Context, issue *models.Issue) error {
	if err := i.db.WithContext(ctx).Omit("Student", "Course", "AssignedTo").Create(issue).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

func (i *IssuePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	var issue models.Issue
	err := i.db.WithContext(ctx).
		Preload("Student").
		Preload("AssignedTo").
		Preload("Course.Department").
		First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Update writes status and assignee only; student and course never change.
// Concurrent writers race with last-write-wins semantics.
func (i *IssuePostgreSQL) Update(ctx context.Context, issue *models.Issue) error {
	result := i.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ?", issue.ID).
		Updates(map[string]interface{}{
			"status":         issue.Status,
			"assigned_to_id": issue.AssignedToID,
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update issue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

func (i *IssuePostgreSQL) List(ctx context.Context, filters repositories.IssueFilters) ([]*models.Issue, int64, error) {
	query := i.applyFilters(i.db.WithContext(ctx).Model(&models.Issue{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "issues", issueSortColumns, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var issues []*models.Issue
	err := query.
		Preload("Student").
		Preload("AssignedTo").
		Preload("Course.Department").
		Find(&issues).Error
	if err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

func (i *IssuePostgreSQL) applyFilters(query *gorm.DB, filters repositories.IssueFilters) *gorm.DB {
	if filters.DepartmentID != nil {
		query = query.
			Joins("JOIN courses ON courses.id = issues.course_id").
			Where("courses.department_id = ?", *filters.DepartmentID)
	}
	if filters.StudentID != nil {
		query = query.Where("issues.student_id = ?", *filters.StudentID)
	}
	if filters.AssignedToID != nil {
		query = query.Where("issues.assigned_to_id = ?", *filters.AssignedToID)
	}
	if filters.CourseID != nil {
		query = query.Where("issues.course_id = ?", *filters.CourseID)
	}
	if filters.Status != nil {
		query = query.Where("issues.status = ?", *filters.Status)
	}
	if filters.IssueType != nil {
		query = query.Where("issues.issue_type = ?", *filters.IssueType)
	}
	return query
}
