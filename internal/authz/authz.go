// Package authz decides whether a principal may view or mutate departments,
// courses and issues. Authorize is a pure function over already-loaded
// records; callers load the principal and target, ask, and only then mutate.
package authz

import (
	"fmt"

	"github.com/SAP-F-2025/issue-service/internal/models"
)

type Action string

const (
	// ActionView covers reading department-scoped data, reading one's own
	// issue and reading an issue assigned to oneself.
	ActionView         Action = "view"
	ActionUpdateStatus Action = "update_status"
	ActionAssign       Action = "assign"
)

type ResourceKind string

const (
	ResourceDepartment ResourceKind = "department"
	ResourceCourse     ResourceKind = "course"
	ResourceIssue      ResourceKind = "issue"
)

const (
	ReasonInsufficientPermission = "insufficient permission"
	ReasonNotAuthenticated       = "authentication required"
	ReasonNoDepartment           = "You are not assigned to any department."
	ReasonDepartmentAccess       = "You do not have permission to access this department's data."
	ReasonActionNotPermitted     = "You do not have permission to perform this action."
	ReasonIssueOutsideDepartment = "This issue does not belong to your department."
	ReasonAssigneeOutsideDept    = "You can only assign issues to staff within your department."
)

// Target is the resource an action is requested on, reduced to the fields the
// rules look at. Build it with the constructors below.
type Target struct {
	Kind           ResourceKind
	ID             uint
	DepartmentID   uint
	DepartmentName string

	StudentID    uint
	AssignedToID *uint

	// Assignee is set only for assignment checks.
	Assignee *models.User
}

func DepartmentTarget(d *models.Department) Target {
	return Target{
		Kind:           ResourceDepartment,
		ID:             d.ID,
		DepartmentID:   d.ID,
		DepartmentName: d.Name,
	}
}

func CourseTarget(c *models.Course) Target {
	t := Target{
		Kind:         ResourceCourse,
		ID:           c.ID,
		DepartmentID: c.DepartmentID,
	}
	if c.Department != nil {
		t.DepartmentName = c.Department.Name
	}
	return t
}

// IssueTarget expects the issue's Course to be loaded; without it the issue
// belongs to no department and department-scoped rules never match.
func IssueTarget(i *models.Issue) Target {
	t := Target{
		Kind:         ResourceIssue,
		ID:           i.ID,
		DepartmentID: i.DepartmentID(),
		StudentID:    i.StudentID,
		AssignedToID: i.AssignedToID,
	}
	if i.Course != nil && i.Course.Department != nil {
		t.DepartmentName = i.Course.Department.Name
	}
	return t
}

func AssignmentTarget(i *models.Issue, assignee *models.User) Target {
	t := IssueTarget(i)
	t.Assignee = assignee
	return t
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize evaluates the rules in precedence order; the first match wins.
func Authorize(principal *models.User, action Action, target Target) Decision {
	if principal == nil {
		return Deny(ReasonNotAuthenticated)
	}

	if principal.IsStaff || principal.Role == models.RoleAdmin {
		return Allow()
	}

	switch action {
	case ActionView:
		return authorizeView(principal, target)
	case ActionUpdateStatus:
		return authorizeUpdateStatus(principal, target)
	case ActionAssign:
		return authorizeAssign(principal, target)
	default:
		return Deny(ReasonInsufficientPermission)
	}
}

func authorizeView(principal *models.User, target Target) Decision {
	if principal.Role == models.RoleHOD && target.DepartmentID != 0 && principal.InDepartment(target.DepartmentID) {
		return Allow()
	}

	if target.Kind == ResourceIssue {
		if principal.ID == target.StudentID {
			return Allow()
		}
		if principal.Role.IsAssignable() && isAssignee(principal, target) {
			return Allow()
		}
		return Deny(ReasonInsufficientPermission)
	}

	if principal.Role == models.RoleHOD {
		return departmentMismatch(principal, target)
	}
	return Deny(ReasonDepartmentAccess)
}

func authorizeUpdateStatus(principal *models.User, target Target) Decision {
	if target.Kind != ResourceIssue {
		return Deny(ReasonInsufficientPermission)
	}
	if principal.Role.IsAssignable() && isAssignee(principal, target) {
		return Allow()
	}
	return Deny(ReasonActionNotPermitted)
}

func authorizeAssign(principal *models.User, target Target) Decision {
	if target.Kind != ResourceIssue || principal.Role != models.RoleHOD {
		return Deny(ReasonActionNotPermitted)
	}
	if principal.DepartmentID == nil {
		return Deny(ReasonNoDepartment)
	}
	if target.DepartmentID == 0 || !principal.InDepartment(target.DepartmentID) {
		return Deny(ReasonIssueOutsideDepartment)
	}
	if a := target.Assignee; a != nil && a.DepartmentID != nil && *a.DepartmentID != target.DepartmentID {
		return Deny(ReasonAssigneeOutsideDept)
	}
	return Allow()
}

func isAssignee(principal *models.User, target Target) bool {
	return target.AssignedToID != nil && *target.AssignedToID == principal.ID
}

func departmentMismatch(principal *models.User, target Target) Decision {
	if principal.DepartmentID == nil {
		return Deny(ReasonNoDepartment)
	}

	own := fmt.Sprintf("%d", *principal.DepartmentID)
	if principal.Department != nil && principal.Department.Name != "" {
		own = principal.Department.Name
	}
	requested := fmt.Sprintf("%d", target.DepartmentID)
	if target.DepartmentName != "" {
		requested = target.DepartmentName
	}
	return Deny(fmt.Sprintf("You are HOD of department %s, not department %s.", own, requested))
}
