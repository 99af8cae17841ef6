package authz

import (
	"testing"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

var (
	deptCS   = &models.Department{ID: 1, Name: "Computer Science"}
	deptMath = &models.Department{ID: 2, Name: "Mathematics"}

	courseCS   = &models.Course{ID: 10, DepartmentID: 1, Department: deptCS}
	courseMath = &models.Course{ID: 20, DepartmentID: 2, Department: deptMath}
)

func user(id uint, role models.UserRole, dept *models.Department) *models.User {
	u := &models.User{ID: id, Role: role}
	if dept != nil {
		u.DepartmentID = uintPtr(dept.ID)
		u.Department = dept
	}
	return u
}

func issue(id, studentID uint, course *models.Course, assignedTo *uint) *models.Issue {
	return &models.Issue{
		ID:           id,
		StudentID:    studentID,
		CourseID:     course.ID,
		Course:       course,
		AssignedToID: assignedTo,
		Status:       models.IssueStatusPending,
	}
}

func TestAuthorize_StaffAndAdminBypassEverything(t *testing.T) {
	staff := &models.User{ID: 1, Role: models.RoleStudent, IsStaff: true}
	admin := user(2, models.RoleAdmin, nil)
	i := issue(100, 50, courseMath, nil)

	for _, p := range []*models.User{staff, admin} {
		for _, action := range []Action{ActionView, ActionUpdateStatus, ActionAssign} {
			assert.True(t, Authorize(p, action, IssueTarget(i)).Allowed, "role=%s action=%s", p.Role, action)
		}
		assert.True(t, Authorize(p, ActionView, DepartmentTarget(deptMath)).Allowed)
		assert.True(t, Authorize(p, ActionView, CourseTarget(courseCS)).Allowed)
	}
}

func TestAuthorize_NilPrincipal(t *testing.T) {
	d := Authorize(nil, ActionView, DepartmentTarget(deptCS))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, d.Reason)
}

func TestAuthorize_IssueRules(t *testing.T) {
	student := user(50, models.RoleStudent, nil)
	otherStudent := user(51, models.RoleStudent, nil)
	lecturer := user(60, models.RoleLecturer, deptCS)
	otherLecturer := user(61, models.RoleLecturer, deptCS)
	hodCS := user(70, models.RoleHOD, deptCS)
	hodMath := user(71, models.RoleHOD, deptMath)

	assigned := issue(100, student.ID, courseCS, uintPtr(lecturer.ID))
	assignedToHodMath := issue(101, student.ID, courseCS, uintPtr(hodMath.ID))

	tests := []struct {
		name      string
		principal *models.User
		action    Action
		issue     *models.Issue
		allowed   bool
		reason    string
	}{
		{"owner reads own issue", student, ActionView, assigned, true, ""},
		{"other student denied", otherStudent, ActionView, assigned, false, ReasonInsufficientPermission},
		{"assignee reads", lecturer, ActionView, assigned, true, ""},
		{"unassigned lecturer in same department denied", otherLecturer, ActionView, assigned, false, ReasonInsufficientPermission},
		{"hod of issue department reads", hodCS, ActionView, assigned, true, ""},
		{"hod of other department denied", hodMath, ActionView, assigned, false, ReasonInsufficientPermission},
		{"hod assigned across departments reads", hodMath, ActionView, assignedToHodMath, true, ""},

		{"assignee updates status", lecturer, ActionUpdateStatus, assigned, true, ""},
		{"student cannot update status", student, ActionUpdateStatus, assigned, false, ReasonActionNotPermitted},
		{"hod of department cannot update unassigned issue", hodCS, ActionUpdateStatus, assigned, false, ReasonActionNotPermitted},
		{"assigned hod updates status", hodMath, ActionUpdateStatus, assignedToHodMath, true, ""},

		{"hod assigns within department", hodCS, ActionAssign, assigned, true, ""},
		{"hod assigns across departments", hodMath, ActionAssign, assigned, false, ReasonIssueOutsideDepartment},
		{"lecturer cannot assign", lecturer, ActionAssign, assigned, false, ReasonActionNotPermitted},
		{"student cannot assign", student, ActionAssign, assigned, false, ReasonActionNotPermitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.principal, tt.action, IssueTarget(tt.issue))
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorize_UnrelatedPrincipalsDeniedEverything(t *testing.T) {
	i := issue(100, 50, courseCS, uintPtr(60))
	outsiders := []*models.User{
		user(51, models.RoleStudent, deptCS),
		user(61, models.RoleLecturer, deptCS),
		user(62, models.RoleLecturer, nil),
		user(71, models.RoleHOD, deptMath),
		user(72, models.RoleHOD, nil),
	}

	for _, p := range outsiders {
		for _, action := range []Action{ActionView, ActionUpdateStatus, ActionAssign} {
			assert.False(t, Authorize(p, action, IssueTarget(i)).Allowed, "user=%d action=%s", p.ID, action)
		}
	}
}

func TestAuthorize_HodAssignIffSameDepartment(t *testing.T) {
	hod := user(70, models.RoleHOD, deptCS)

	assert.True(t, Authorize(hod, ActionAssign, IssueTarget(issue(1, 50, courseCS, nil))).Allowed)
	assert.False(t, Authorize(hod, ActionAssign, IssueTarget(issue(2, 50, courseMath, nil))).Allowed)
}

func TestAuthorize_AssignmentTargetChecksAssigneeDepartment(t *testing.T) {
	hod := user(70, models.RoleHOD, deptCS)
	i := issue(1, 50, courseCS, nil)

	sameDept := user(60, models.RoleLecturer, deptCS)
	otherDept := user(61, models.RoleLecturer, deptMath)
	noDept := user(62, models.RoleLecturer, nil)

	assert.True(t, Authorize(hod, ActionAssign, AssignmentTarget(i, sameDept)).Allowed)
	assert.True(t, Authorize(hod, ActionAssign, AssignmentTarget(i, noDept)).Allowed)

	d := Authorize(hod, ActionAssign, AssignmentTarget(i, otherDept))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonAssigneeOutsideDept, d.Reason)
}

func TestAuthorize_HodWithoutDepartment(t *testing.T) {
	hod := user(70, models.RoleHOD, nil)

	d := Authorize(hod, ActionAssign, IssueTarget(issue(1, 50, courseCS, nil)))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoDepartment, d.Reason)

	d = Authorize(hod, ActionView, DepartmentTarget(deptCS))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoDepartment, d.Reason)
}

func TestAuthorize_DepartmentAndCourseViews(t *testing.T) {
	hodCS := user(70, models.RoleHOD, deptCS)
	lecturer := user(60, models.RoleLecturer, deptCS)

	assert.True(t, Authorize(hodCS, ActionView, DepartmentTarget(deptCS)).Allowed)
	assert.True(t, Authorize(hodCS, ActionView, CourseTarget(courseCS)).Allowed)

	d := Authorize(hodCS, ActionView, DepartmentTarget(deptMath))
	assert.False(t, d.Allowed)
	assert.Equal(t, "You are HOD of department Computer Science, not department Mathematics.", d.Reason)

	d = Authorize(hodCS, ActionView, CourseTarget(courseMath))
	assert.False(t, d.Allowed)
	assert.Equal(t, "You are HOD of department Computer Science, not department Mathematics.", d.Reason)

	d = Authorize(lecturer, ActionView, DepartmentTarget(deptCS))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonDepartmentAccess, d.Reason)
}

func TestAuthorize_MismatchFallsBackToIDs(t *testing.T) {
	hod := &models.User{ID: 70, Role: models.RoleHOD, DepartmentID: uintPtr(1)}

	d := Authorize(hod, ActionView, DepartmentTarget(&models.Department{ID: 2}))
	assert.Equal(t, "You are HOD of department 1, not department 2.", d.Reason)
}

func TestAuthorize_IssueWithoutCourseMatchesNoDepartment(t *testing.T) {
	hod := user(70, models.RoleHOD, deptCS)
	i := &models.Issue{ID: 1, StudentID: 50, CourseID: courseCS.ID}

	assert.False(t, Authorize(hod, ActionView, IssueTarget(i)).Allowed)
	assert.False(t, Authorize(hod, ActionAssign, IssueTarget(i)).Allowed)
}

func TestAuthorize_UnknownAction(t *testing.T) {
	d := Authorize(user(1, models.RoleHOD, deptCS), Action("delete"), DepartmentTarget(deptCS))
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientPermission, d.Reason)
}
