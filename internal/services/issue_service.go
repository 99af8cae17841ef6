package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/issue-service/internal/authz"
	"github.com/SAP-F-2025/issue-service/internal/events"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/SAP-F-2025/issue-service/internal/validator"
)

const (
	msgUserIDRequired        = "User ID is required"
	msgAssigneeRole          = "Issues can only be assigned to lecturers or heads of department"
	msgNotDepartmentHOD      = "You must be the HOD of this department to assign issues."
	msgOnlyStudentsCanCreate = "Only students can submit issues."

	ruleAssignableRole = "assignable_role"
	ruleSameDepartment = "same_department"
)

type issueService struct {
	repo      repositories.Repository
	emitter   events.Emitter
	logger    *slog.Logger
	svcLogger *ServiceLogger
	validator *validator.Validator
}

func NewIssueService(repo repositories.Repository, emitter events.Emitter, logger *slog.Logger, validator *validator.Validator) IssueService {
	return &issueService{
		repo:      repo,
		emitter:   emitter,
		logger:    logger,
		svcLogger: NewServiceLogger(logger, LogConfig{Service: "issue-service", Component: "lifecycle"}),
		validator: validator,
	}
}

// ===== LIFECYCLE OPERATIONS =====

func (s *issueService) CreateIssue(ctx context.Context, principal *models.User, req *CreateIssueRequest) (issue *models.Issue, err error) {
	op := s.svcLogger.WithOperation(ctx, "create_issue", principalID(principal))
	defer func() { op.LogResult(issueID(issue), "issue", err) }()

	if principal == nil {
		return nil, ErrUnauthorized
	}
	if principal.Role != models.RoleStudent {
		return nil, NewPermissionError(principal.ID, 0, "issue", "create", msgOnlyStudentsCanCreate)
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Directory().GetCourse(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrCourseNotFound, req.CourseID)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	issue = &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		IssueType:   models.IssueType(req.IssueType),
		StudentID:   principal.ID,
		CourseID:    course.ID,
		Status:      models.IssueStatusPending,
	}
	if err := s.repo.Issue().Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	issue.Student = principal
	issue.Course = course

	s.logger.Info("Issue created", "issue_id", issue.ID, "student_id", principal.ID, "course_id", course.ID)
	op.LogAudit(AuditEventCreate, issue.ID, "issue", nil, issue.Status)
	s.emitter.Emit(ctx, events.NewIssueCreatedEvent(principal.ID, issue))

	return issue, nil
}

// UpdateStatus sets any of the three statuses directly. The write happens even
// when the value is unchanged; the event only fires on an actual change.
func (s *issueService) UpdateStatus(ctx context.Context, principal *models.User, id uint, status string) (issue *models.Issue, err error) {
	op := s.svcLogger.WithOperation(ctx, "update_issue_status", principalID(principal))
	defer func() { op.LogResult(id, "issue", err) }()

	if err := s.validator.ValidateVar("status", status, "required,issue_status"); err != nil {
		return nil, err
	}

	issue, err = s.loadIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(principal, authz.ActionUpdateStatus, authz.IssueTarget(issue)); err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	issue.Status = models.IssueStatus(status)
	if err := s.repo.Issue().Update(ctx, issue); err != nil {
		issue.Status = oldStatus
		return nil, fmt.Errorf("failed to update issue status: %w", err)
	}

	if oldStatus != issue.Status {
		op.LogAudit(AuditEventUpdate, issue.ID, "issue", oldStatus, issue.Status)
		s.emitter.Emit(ctx, events.NewIssueStatusChangedEvent(principal.ID, issue, oldStatus, issue.Status))
	}

	return issue, nil
}

func (s *issueService) AssignIssue(ctx context.Context, principal *models.User, id, assigneeID uint) (issue *models.Issue, err error) {
	op := s.svcLogger.WithOperation(ctx, "assign_issue", principalID(principal))
	defer func() { op.LogResult(id, "issue", err) }()

	if principal == nil {
		return nil, ErrUnauthorized
	}
	if assigneeID == 0 {
		return nil, NewInvalidInput("user_id", msgUserIDRequired, nil)
	}

	issue, err = s.loadIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	// Staff and admins take the global path, which never compares departments.
	scoped := !isGlobalAdmin(principal)
	if scoped {
		if err := s.authorize(principal, authz.ActionAssign, authz.IssueTarget(issue)); err != nil {
			return nil, err
		}
	}

	return s.assign(ctx, op, principal, issue, assigneeID, scoped)
}

func (s *issueService) AssignDepartmentIssue(ctx context.Context, principal *models.User, departmentID, id, assigneeID uint) (issue *models.Issue, err error) {
	op := s.svcLogger.WithOperation(ctx, "assign_department_issue", principalID(principal))
	defer func() { op.LogResult(id, "issue", err) }()

	if principal == nil {
		return nil, ErrUnauthorized
	}

	if _, err := s.loadDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

	issue, err = s.loadIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isGlobalAdmin(principal) && !(principal.Role == models.RoleHOD && principal.InDepartment(departmentID)) {
		return nil, NewPermissionError(principal.ID, departmentID, "department", string(authz.ActionAssign), msgNotDepartmentHOD)
	}
	if issue.DepartmentID() != departmentID {
		return nil, NewPermissionError(principal.ID, issue.ID, "issue", string(authz.ActionAssign), authz.ReasonIssueOutsideDepartment)
	}
	if assigneeID == 0 {
		return nil, NewInvalidInput("user_id", msgUserIDRequired, nil)
	}

	return s.assign(ctx, op, principal, issue, assigneeID, true)
}

// assign validates the assignee, forces InProgress and emits Assigned.
// The scoped flag selects the department-checked flow.
func (s *issueService) assign(ctx context.Context, op *ContextualLogger, principal *models.User, issue *models.Issue, assigneeID uint, scoped bool) (*models.Issue, error) {
	assignee, err := s.repo.Directory().GetUser(ctx, assigneeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrUserNotFound, assigneeID)
		}
		return nil, fmt.Errorf("failed to get assignee: %w", err)
	}

	if !assignee.Role.IsAssignable() {
		return nil, NewRuleViolation("user_id", msgAssigneeRole, ruleAssignableRole, assigneeID)
	}

	if scoped {
		if assignee.DepartmentID != nil && *assignee.DepartmentID != issue.DepartmentID() {
			return nil, NewRuleViolation("user_id", authz.ReasonAssigneeOutsideDept, ruleSameDepartment, assigneeID)
		}
		if err := s.authorize(principal, authz.ActionAssign, authz.AssignmentTarget(issue, assignee)); err != nil {
			return nil, err
		}
	}

	previousAssignee := issue.AssignedToID
	previousStatus := issue.Status

	issue.AssignedToID = &assignee.ID
	issue.Status = models.IssueStatusInProgress
	if err := s.repo.Issue().Update(ctx, issue); err != nil {
		issue.AssignedToID = previousAssignee
		issue.Status = previousStatus
		return nil, fmt.Errorf("failed to assign issue: %w", err)
	}
	issue.AssignedTo = assignee

	op.LogAudit(AuditEventAssign, issue.ID, "issue", previousAssignee, assignee.ID)
	s.emitter.Emit(ctx, events.NewIssueAssignedEvent(principal.ID, issue, assignee, previousAssignee, previousStatus))

	return issue, nil
}

// ===== READ OPERATIONS =====

func (s *issueService) GetIssue(ctx context.Context, principal *models.User, id uint) (*models.Issue, error) {
	issue, err := s.loadIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, authz.ActionView, authz.IssueTarget(issue)); err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues narrows the filters to what the principal may see: everything for
// staff and admins, assigned issues for lecturers and HODs, own issues for students.
func (s *issueService) ListIssues(ctx context.Context, principal *models.User, filters repositories.IssueFilters) ([]*models.Issue, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthorized
	}

	switch {
	case isGlobalAdmin(principal):
	case principal.Role.IsAssignable():
		filters.AssignedToID = &principal.ID
	default:
		filters.StudentID = &principal.ID
	}

	issues, total, err := s.repo.Issue().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, total, nil
}

// ListStaffIssues lists issues assigned to one staff member. An HOD only sees
// the ones in their own department.
func (s *issueService) ListStaffIssues(ctx context.Context, principal *models.User, staffID uint, filters repositories.IssueFilters) ([]*models.Issue, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthorized
	}

	if _, err := s.repo.Directory().GetUser(ctx, staffID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, 0, notFound(ErrUserNotFound, staffID)
		}
		return nil, 0, fmt.Errorf("failed to get user: %w", err)
	}

	filters.AssignedToID = &staffID
	filters.StudentID = nil

	switch {
	case isGlobalAdmin(principal), principal.ID == staffID:
	case principal.Role == models.RoleHOD && principal.DepartmentID != nil:
		filters.DepartmentID = principal.DepartmentID
	default:
		return nil, 0, NewPermissionError(principal.ID, staffID, "user", "list_issues", authz.ReasonActionNotPermitted)
	}

	issues, total, err := s.repo.Issue().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff issues: %w", err)
	}
	return issues, total, nil
}

// ===== HELPERS =====

func (s *issueService) loadIssue(ctx context.Context, id uint) (*models.Issue, error) {
	issue, err := s.repo.Issue().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrIssueNotFound, id)
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

func (s *issueService) loadDepartment(ctx context.Context, id uint) (*models.Department, error) {
	return loadDepartment(ctx, s.repo.Directory(), id)
}

func (s *issueService) authorize(principal *models.User, action authz.Action, target authz.Target) error {
	return authorize(principal, action, target)
}

func authorize(principal *models.User, action authz.Action, target authz.Target) error {
	if principal == nil {
		return ErrUnauthorized
	}
	decision := authz.Authorize(principal, action, target)
	if !decision.Allowed {
		return NewPermissionError(principal.ID, target.ID, string(target.Kind), string(action), decision.Reason)
	}
	return nil
}

func loadDepartment(ctx context.Context, directory repositories.DirectoryRepository, id uint) (*models.Department, error) {
	department, err := directory.GetDepartment(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, notFound(ErrDepartmentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

func isGlobalAdmin(u *models.User) bool {
	return u.IsStaff || u.Role == models.RoleAdmin
}

func principalID(u *models.User) uint {
	if u == nil {
		return 0
	}
	return u.ID
}

func issueID(i *models.Issue) uint {
	if i == nil {
		return 0
	}
	return i.ID
}
