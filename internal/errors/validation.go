package errors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// Single wraps one field failure as a ValidationErrors value.
func Single(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{*NewValidationError(field, message, value)}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type.
// Errors of any other type are returned as a single field-less entry.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	validatorErr, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			errors = append(errors, ValidationError{Message: err.Error()})
		}
		return errors
	}

	for _, fieldErr := range validatorErr {
		errors = append(errors, ValidationError{
			Field:   fieldErr.Field(),
			Message: getErrorMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}

	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "issue_status":
		return "Invalid status. Must be one of: Pending, InProgress, Solved"
	case "issue_type":
		return "must be a valid issue type (Missing Marks, Appeals, Corrections)"
	case "user_role":
		return "must be a valid user role (STUDENT, LECTURER, HOD, ADMIN)"
	case "issue_title":
		return "must be between 1 and 200 characters"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
