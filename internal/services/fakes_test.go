package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/events"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/SAP-F-2025/issue-service/internal/validator"
)

// memStore is an in-memory Repository used across the service tests.
type memStore struct {
	mu sync.Mutex

	users         map[uint]*models.User
	departments   map[uint]*models.Department
	courses       map[uint]*models.Course
	issues        map[uint]*models.Issue
	notifications []*models.Notification

	nextIssueID        uint
	nextNotificationID uint

	failNotificationCreate error
	issueUpdates           int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint]*models.User),
		departments: make(map[uint]*models.Department),
		courses:     make(map[uint]*models.Course),
		issues:      make(map[uint]*models.Issue),
	}
}

func (m *memStore) Directory() repositories.DirectoryRepository       { return (*memDirectory)(m) }
func (m *memStore) Issue() repositories.IssueRepository               { return (*memIssues)(m) }
func (m *memStore) Notification() repositories.NotificationRepository { return (*memNotifications)(m) }

func (m *memStore) addDepartment(id uint, name, code string) *models.Department {
	d := &models.Department{ID: id, Name: name, Code: code, CollegeID: 1}
	m.departments[id] = d
	return d
}

func (m *memStore) addCourse(id uint, code string, departmentID uint) *models.Course {
	c := &models.Course{ID: id, Name: code, Code: code, DepartmentID: departmentID}
	m.courses[id] = c
	return c
}

func (m *memStore) addUser(id uint, role models.UserRole, departmentID *uint) *models.User {
	u := &models.User{
		ID:           id,
		Username:     fmt.Sprintf("%s-%d", strings.ToLower(string(role)), id),
		FirstName:    string(role),
		LastName:     "User",
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if departmentID != nil {
		u.Department = m.departments[*departmentID]
	}
	m.users[id] = u
	return u
}

func (m *memStore) addIssue(id, studentID, courseID uint, status models.IssueStatus, assignedTo *uint) *models.Issue {
	i := &models.Issue{
		ID:           id,
		Title:        fmt.Sprintf("Issue %d", id),
		IssueType:    models.IssueTypeMissingMarks,
		StudentID:    studentID,
		CourseID:     courseID,
		Status:       status,
		AssignedToID: assignedTo,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	m.issues[id] = i
	if id >= m.nextIssueID {
		m.nextIssueID = id
	}
	return i
}

func (m *memStore) storedStatus(id uint) models.IssueStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issues[id].Status
}

func (m *memStore) notificationsFor(userID uint) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (m *memStore) notificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

// ===== DIRECTORY =====

type memDirectory memStore

func (d *memDirectory) GetUser(ctx context.Context, id uint) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return u, nil
}

func (d *memDirectory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (d *memDirectory) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.courses[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	course := *c
	course.Department = d.departments[c.DepartmentID]
	return &course, nil
}

func (d *memDirectory) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dept, ok := d.departments[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return dept, nil
}

func (d *memDirectory) ListUsersByRoleAndDepartment(ctx context.Context, role models.UserRole, departmentID uint) ([]*models.User, error) {
	return d.filterUsers(func(u *models.User) bool {
		return u.Role == role && u.InDepartment(departmentID)
	}), nil
}

func (d *memDirectory) ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	return d.filterUsers(func(u *models.User) bool { return u.Role == role }), nil
}

func (d *memDirectory) ListCoursesByDepartment(ctx context.Context, departmentID uint) ([]*models.Course, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*models.Course
	for _, c := range d.courses {
		if c.DepartmentID == departmentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memDirectory) filterUsers(match func(*models.User) bool) []*models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*models.User
	for _, u := range d.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ===== ISSUES =====

type memIssues memStore

func (r *memIssues) Create(ctx context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextIssueID++
	issue.ID = r.nextIssueID
	issue.CreatedAt = time.Now().UTC()
	issue.UpdatedAt = issue.CreatedAt
	stored := *issue
	r.issues[issue.ID] = &stored
	return nil
}

func (r *memIssues) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return r.resolve(stored), nil
}

func (r *memIssues) Update(ctx context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[issue.ID]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	stored.Status = issue.Status
	stored.AssignedToID = issue.AssignedToID
	stored.UpdatedAt = time.Now().UTC()
	r.issueUpdates++
	return nil
}

func (r *memIssues) List(ctx context.Context, filters repositories.IssueFilters) ([]*models.Issue, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Issue
	for _, stored := range r.issues {
		issue := r.resolve(stored)
		if filters.StudentID != nil && issue.StudentID != *filters.StudentID {
			continue
		}
		if filters.AssignedToID != nil && !issue.IsAssignedTo(*filters.AssignedToID) {
			continue
		}
		if filters.DepartmentID != nil && issue.DepartmentID() != *filters.DepartmentID {
			continue
		}
		if filters.Status != nil && issue.Status != *filters.Status {
			continue
		}
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *memIssues) resolve(stored *models.Issue) *models.Issue {
	issue := *stored
	issue.Student = r.users[issue.StudentID]
	if c, ok := r.courses[issue.CourseID]; ok {
		course := *c
		course.Department = r.departments[c.DepartmentID]
		issue.Course = &course
	}
	if issue.AssignedToID != nil {
		issue.AssignedTo = r.users[*issue.AssignedToID]
	}
	return &issue
}

// ===== NOTIFICATIONS =====

type memNotifications memStore

func (r *memNotifications) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNotificationCreate != nil {
		return r.failNotificationCreate
	}
	r.nextNotificationID++
	notification.ID = r.nextNotificationID
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *memNotifications) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *memNotifications) ListByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if filters.Read != nil && n.Read != *filters.Read {
			continue
		}
		if filters.Type != nil && n.NotificationType != *filters.Type {
			continue
		}
		out = append(out, n)
	}
	total := int64(len(out))
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *memNotifications) MarkRead(ctx context.Context, id uint, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			n.ReadAt = &readAt
			return nil
		}
	}
	return repositories.ErrRecordNotFound
}

func (r *memNotifications) MarkAllRead(ctx context.Context, userID uint, readAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt = &readAt
			updated++
		}
	}
	return updated, nil
}

func (r *memNotifications) CountUnread(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotifications) ExistsSince(ctx context.Context, userID, issueID uint, notificationType models.NotificationType, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID && n.IssueID != nil && *n.IssueID == issueID &&
			n.NotificationType == notificationType && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// ===== EVENTS =====

type recordingEmitter struct {
	events []*events.LifecycleEvent
}

func (e *recordingEmitter) Emit(ctx context.Context, event *events.LifecycleEvent) {
	e.events = append(e.events, event)
}

func (e *recordingEmitter) ofType(eventType events.EventType) []*events.LifecycleEvent {
	var out []*events.LifecycleEvent
	for _, ev := range e.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// ===== HELPERS =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uintPtr(v uint) *uint { return &v }

var errStoreDown = errors.New("store unavailable")

// fixture is a small institution: two departments, one course each, an admin
// pair, an HOD and a lecturer per department, and two students.
type fixture struct {
	store *memStore

	deptCS, deptMath     *models.Department
	courseCS, courseMath *models.Course

	admin1, admin2        *models.User
	staff                 *models.User
	hodCS, hodMath        *models.User
	lecturerCS            *models.User
	lecturerMath          *models.User
	student, otherStudent *models.User
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{store: s}

	f.deptCS = s.addDepartment(1, "Computer Science", "CS")
	f.deptMath = s.addDepartment(2, "Mathematics", "MATH")
	f.courseCS = s.addCourse(10, "CSC1100", 1)
	f.courseMath = s.addCourse(20, "MTH1100", 2)

	f.admin1 = s.addUser(1, models.RoleAdmin, nil)
	f.admin2 = s.addUser(2, models.RoleAdmin, nil)
	f.staff = s.addUser(3, models.RoleLecturer, nil)
	f.staff.IsStaff = true
	f.hodCS = s.addUser(10, models.RoleHOD, uintPtr(1))
	f.hodMath = s.addUser(11, models.RoleHOD, uintPtr(2))
	f.lecturerCS = s.addUser(20, models.RoleLecturer, uintPtr(1))
	f.lecturerMath = s.addUser(21, models.RoleLecturer, uintPtr(2))
	f.student = s.addUser(30, models.RoleStudent, nil)
	f.otherStudent = s.addUser(31, models.RoleStudent, nil)
	return f
}

// wire returns an issue service whose events flow through a real bus into the
// notification dispatcher.
func (f *fixture) wire() (IssueService, *NotificationDispatcher) {
	logger := testLogger()
	bus := events.NewBus(nil, logger)
	dispatcher := NewNotificationDispatcher(f.store, nil, nil, logger)
	bus.Subscribe(dispatcher)
	return NewIssueService(f.store, bus, logger, validator.New()), dispatcher
}

func (f *fixture) withRecorder() (IssueService, *recordingEmitter) {
	rec := &recordingEmitter{}
	return NewIssueService(f.store, rec, testLogger(), validator.New()), rec
}
