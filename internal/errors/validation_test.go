package errors

import (
	stderrors "errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("status", "is required", "Bogus")

	assert.Equal(t, "status", err.Field)
	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "Bogus", err.Value)
	assert.Equal(t, "validation error on field 'status': is required", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("assignee", "must be a lecturer or head of department", "assignable_role", uint(7))

	assert.Equal(t, "assignable_role", err.Rule)
	assert.Equal(t, "assignee", err.Field)
	assert.Equal(t, uint(7), err.Value)
}

func TestSingle(t *testing.T) {
	errs := Single("user_id", "User ID is required", nil)

	require.Len(t, errs, 1)
	assert.Equal(t, "validation failed: user_id User ID is required", errs.Error())

	var target ValidationErrors
	assert.True(t, stderrors.As(error(errs), &target))
}

func TestToValidationErrors(t *testing.T) {
	type request struct {
		Title string `validate:"required"`
		Limit int    `validate:"max=100"`
	}

	v := validator.New()
	errs := ToValidationErrors(v.Struct(request{Limit: 500}))

	require.Len(t, errs, 2)
	assert.Equal(t, "Title", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "must be at most 100", errs[1].Message)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	errs := ToValidationErrors(stderrors.New("boom"))
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Message)

	assert.Empty(t, ToValidationErrors(nil))
}
