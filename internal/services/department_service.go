package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/issue-service/internal/authz"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
)

// departmentService serves the read-only department dashboards. Staff and
// admins see every department, an HOD only their own.
type departmentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDepartmentService(repo repositories.Repository, logger *slog.Logger) DepartmentService {
	return &departmentService{
		repo:   repo,
		logger: logger,
	}
}

func (s *departmentService) GetDepartment(ctx context.Context, principal *models.User, departmentID uint) (*models.Department, error) {
	return s.authorizedDepartment(ctx, principal, departmentID)
}

func (s *departmentService) ListDepartmentIssues(ctx context.Context, principal *models.User, departmentID uint, filters repositories.IssueFilters) ([]*models.Issue, int64, error) {
	if _, err := s.authorizedDepartment(ctx, principal, departmentID); err != nil {
		return nil, 0, err
	}

	filters.DepartmentID = &departmentID
	issues, total, err := s.repo.Issue().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list department issues: %w", err)
	}
	return issues, total, nil
}

// ListDepartmentStaff returns the department's HODs followed by its lecturers.
func (s *departmentService) ListDepartmentStaff(ctx context.Context, principal *models.User, departmentID uint) ([]*models.User, error) {
	if _, err := s.authorizedDepartment(ctx, principal, departmentID); err != nil {
		return nil, err
	}

	var staff []*models.User
	for _, role := range []models.UserRole{models.RoleHOD, models.RoleLecturer} {
		users, err := s.repo.Directory().ListUsersByRoleAndDepartment(ctx, role, departmentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list department %s users: %w", role, err)
		}
		staff = append(staff, users...)
	}
	return staff, nil
}

func (s *departmentService) ListDepartmentCourses(ctx context.Context, principal *models.User, departmentID uint) ([]*models.Course, error) {
	if _, err := s.authorizedDepartment(ctx, principal, departmentID); err != nil {
		return nil, err
	}

	courses, err := s.repo.Directory().ListCoursesByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department courses: %w", err)
	}
	return courses, nil
}

// GetUserDepartment returns the department a user heads. Users may look up
// themselves; staff and admins may look up anyone.
func (s *departmentService) GetUserDepartment(ctx context.Context, principal *models.User, userID uint) (*models.Department, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if principal.ID != userID && !isGlobalAdmin(principal) {
		return nil, NewPermissionError(principal.ID, userID, "user", "view_department", authz.ReasonActionNotPermitted)
	}

	user, err := s.repo.Directory().GetUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role != models.RoleHOD || user.DepartmentID == nil {
		return nil, notFound(ErrUserDepartmentAbsent, userID)
	}

	return loadDepartment(ctx, s.repo.Directory(), *user.DepartmentID)
}

func (s *departmentService) authorizedDepartment(ctx context.Context, principal *models.User, departmentID uint) (*models.Department, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	department, err := loadDepartment(ctx, s.repo.Directory(), departmentID)
	if err != nil {
		return nil, err
	}

	if err := authorize(principal, authz.ActionView, authz.DepartmentTarget(department)); err != nil {
		s.logger.Warn("Department access denied",
			"user_id", principal.ID,
			"department_id", departmentID,
			"error", err)
		return nil, err
	}
	return department, nil
}
