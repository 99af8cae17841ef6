package postgres

import (
	"context"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"gorm.io/gorm"
)

type DirectoryPostgreSQL struct {
	db *gorm.DB
}

func NewDirectoryPostgreSQL(db *gorm.DB) repositories.DirectoryRepository {
	return &DirectoryPostgreSQL{db: db}
}

func (d *DirectoryPostgreSQL) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Preload("Department").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DirectoryPostgreSQL) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Preload("Department").
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DirectoryPostgreSQL) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := d.db.WithContext(ctx).
		Preload("Department.College").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (d *DirectoryPostgreSQL) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	err := d.db.WithContext(ctx).
		Preload("College").
		First(&department, id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (d *DirectoryPostgreSQL) ListUsersByRoleAndDepartment(ctx context.Context, role models.UserRole, departmentID uint) ([]*models.User, error) {
	var users []*models.User
	err := d.db.WithContext(ctx).
		Where("role = ? AND department_id = ? AND is_active = ?", role, departmentID, true).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *DirectoryPostgreSQL) ListUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var users []*models.User
	err := d.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (d *DirectoryPostgreSQL) ListCoursesByDepartment(ctx context.Context, departmentID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := d.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("code ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}
