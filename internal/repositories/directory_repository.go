package repositories

import (
	"context"

	"github.com/SAP-F-2025/issue-service/internal/models"
)

// DirectoryRepository is the read-only view of the college, department, course
// and user registries. Recipient lists are always computed through it, never cached.
type DirectoryRepository interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetCourse resolves the course's department and college.
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	GetDepartment(ctx context.Context, id uint) (*models.Department, error)

	ListUsersByRoleAndDepartment(ctx context.Context, role models.UserRole, departmentID uint) ([]*models.User, error)
	ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	ListCoursesByDepartment(ctx context.Context, departmentID uint) ([]*models.Course, error)
}
