package models

import "time"

type College struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100"`
	Code        string `json:"code" gorm:"uniqueIndex;not null;size:10"`
	Description string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (College) TableName() string {
	return "colleges"
}

type Department struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Name      string   `json:"name" gorm:"not null;size:100"`
	Code      string   `json:"code" gorm:"uniqueIndex;not null;size:10"`
	Details   string   `json:"details" gorm:"type:text"`
	CollegeID uint     `json:"college_id" gorm:"not null;index"`
	College   *College `json:"college,omitempty" gorm:"foreignKey:CollegeID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Course struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"not null;size:100"`
	Code         string      `json:"code" gorm:"uniqueIndex;not null;size:10"`
	Details      string      `json:"details" gorm:"type:text"`
	DepartmentID uint        `json:"department_id" gorm:"not null;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
