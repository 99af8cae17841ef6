package validator

import (
	"reflect"
	"strings"
	"unicode/utf8"

	apperrors "github.com/SAP-F-2025/issue-service/internal/errors"
	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// Validator wraps a go-playground validator with the issue-domain tags registered.
type Validator struct {
	structValidator *validator.Validate
}

func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only and returns the raw validator error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}

// ValidateVar validates a single value against a tag expression, reporting
// failures under the given field name.
func (v *Validator) ValidateVar(field string, value interface{}, tag string) error {
	if err := v.structValidator.Var(value, tag); err != nil {
		errs := apperrors.ToValidationErrors(err)
		for i := range errs {
			errs[i].Field = field
		}
		return errs
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("issue_status", validateIssueStatus)
	validate.RegisterValidation("issue_type", validateIssueType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("issue_title", validateIssueTitle)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateIssueStatus(fl validator.FieldLevel) bool {
	return models.IssueStatus(fl.Field().String()).IsValid()
}

func validateIssueType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, validType := range models.ValidIssueTypes() {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, validRole := range models.ValidRoles() {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateIssueTitle(fl validator.FieldLevel) bool {
	title := strings.TrimSpace(fl.Field().String())
	n := utf8.RuneCountInString(title)
	return n >= 1 && n <= 200
}
