package models

import "time"

type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "Pending"
	IssueStatusInProgress IssueStatus = "InProgress"
	IssueStatusSolved     IssueStatus = "Solved"
)

// ValidIssueStatuses lists the three lifecycle states. Any of them may be set
// directly by an authorized actor; there is no forward-only ordering.
func ValidIssueStatuses() []IssueStatus {
	return []IssueStatus{IssueStatusPending, IssueStatusInProgress, IssueStatusSolved}
}

func (s IssueStatus) IsValid() bool {
	for _, valid := range ValidIssueStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

type IssueType string

const (
	IssueTypeMissingMarks IssueType = "Missing Marks"
	IssueTypeAppeals      IssueType = "Appeals"
	IssueTypeCorrections  IssueType = "Corrections"
)

func ValidIssueTypes() []IssueType {
	return []IssueType{IssueTypeMissingMarks, IssueTypeAppeals, IssueTypeCorrections}
}

type Issue struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description string    `json:"description" gorm:"type:text"`
	IssueType   IssueType `json:"issue_type" gorm:"not null;size:50"`

	// StudentID and CourseID are fixed at creation.
	StudentID uint    `json:"student_id" gorm:"not null;index"`
	Student   *User   `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	CourseID  uint    `json:"course_id" gorm:"not null;index"`
	Course    *Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	AssignedToID *uint `json:"assigned_to_id" gorm:"index"`
	AssignedTo   *User `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`

	Status IssueStatus `json:"status" gorm:"not null;size:20;default:Pending;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Issue) TableName() string {
	return "issues"
}

// DepartmentID returns the owning department, resolved through the course.
// It is zero when the course was not loaded.
func (i *Issue) DepartmentID() uint {
	if i.Course == nil {
		return 0
	}
	return i.Course.DepartmentID
}

func (i *Issue) IsAssignedTo(userID uint) bool {
	return i.AssignedToID != nil && *i.AssignedToID == userID
}
