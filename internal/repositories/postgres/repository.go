package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	directory    repositories.DirectoryRepository
	issue        repositories.IssueRepository
	notification repositories.NotificationRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		directory:    NewDirectoryPostgreSQL(db),
		issue:        NewIssuePostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
	}
}

func (r *repository) Directory() repositories.DirectoryRepository {
	return r.directory
}

func (r *repository) Issue() repositories.IssueRepository {
	return r.issue
}

func (r *repository) Notification() repositories.NotificationRepository {
	return r.notification
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
