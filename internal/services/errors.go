package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/issue-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden - insufficient permissions")
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is reserved for strict transition ordering; status changes
	// are currently unrestricted so nothing returns it yet.
	ErrConflict = errors.New("resource conflict")

	ErrIssueNotFound        = fmt.Errorf("issue not found: %w", ErrNotFound)
	ErrCourseNotFound       = fmt.Errorf("course not found: %w", ErrNotFound)
	ErrDepartmentNotFound   = fmt.Errorf("department not found: %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification not found: %w", ErrNotFound)
	ErrUserDepartmentAbsent = fmt.Errorf("user is not head of any department: %w", ErrNotFound)
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PermissionError is the Forbidden kind. Reason is safe to show to the caller.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Is(target error) bool {
	return target == ErrForbidden
}

// ===== ERROR HELPERS =====

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// NewInvalidInput reports a single-field InvalidInput failure.
func NewInvalidInput(field, message string, value interface{}) ValidationErrors {
	return apperrors.Single(field, message, value)
}

// NewRuleViolation reports a single-field InvalidInput failure for a named
// business rule.
func NewRuleViolation(field, message, rule string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationErrorWithRule(field, message, rule, value)}
}

func notFound(sentinel error, id uint) error {
	return fmt.Errorf("%w (id=%d)", sentinel, id)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	if errors.Is(err, ErrInvalidInput) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
