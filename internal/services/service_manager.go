package services

import (
	"log/slog"

	"github.com/SAP-F-2025/issue-service/internal/events"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/SAP-F-2025/issue-service/internal/validator"
)

type ServiceManager interface {
	Issue() IssueService
	Department() DepartmentService
	Notification() NotificationService
	Export() ExportService
}

type serviceManager struct {
	issue        IssueService
	department   DepartmentService
	notification NotificationService
	export       ExportService
}

// NewServiceManager wires the services and subscribes the notification
// dispatcher to the lifecycle bus. counts may be nil to disable unread count
// caching.
func NewServiceManager(repo repositories.Repository, bus *events.Bus, guard DedupGuard, counts *UnreadCountCache, validator *validator.Validator, logger *slog.Logger) ServiceManager {
	bus.Subscribe(NewNotificationDispatcher(repo, guard, counts, logger.With("component", "notification_dispatcher")))

	department := NewDepartmentService(repo, logger)
	return &serviceManager{
		issue:        NewIssueService(repo, bus, logger, validator),
		department:   department,
		notification: NewNotificationService(repo, counts, logger),
		export:       NewExportService(department, logger),
	}
}

func (m *serviceManager) Issue() IssueService {
	return m.issue
}

func (m *serviceManager) Department() DepartmentService {
	return m.department
}

func (m *serviceManager) Notification() NotificationService {
	return m.notification
}

func (m *serviceManager) Export() ExportService {
	return m.export
}
