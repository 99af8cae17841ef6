package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleStudent  UserRole = "STUDENT"
	RoleLecturer UserRole = "LECTURER"
	RoleHOD      UserRole = "HOD"
	RoleAdmin    UserRole = "ADMIN"
)

// ValidRoles lists every role a user may hold.
func ValidRoles() []UserRole {
	return []UserRole{RoleStudent, RoleLecturer, RoleHOD, RoleAdmin}
}

// IsAssignable reports whether a user with this role may be the assignee of an issue.
func (r UserRole) IsAssignable() bool {
	return r == RoleLecturer || r == RoleHOD
}

type User struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Username  string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	FirstName string   `json:"first_name" gorm:"size:150"`
	LastName  string   `json:"last_name" gorm:"size:150"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole `json:"role" gorm:"not null;size:20;default:STUDENT;index"`

	// DepartmentID is always present on the record but may be empty.
	// HODs are expected to have one; nothing enforces it at write time.
	DepartmentID *uint       `json:"department_id" gorm:"index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`

	IsStaff  bool `json:"is_staff" gorm:"default:false"`
	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// InDepartment reports whether the user is affiliated with the given department.
func (u *User) InDepartment(departmentID uint) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}
