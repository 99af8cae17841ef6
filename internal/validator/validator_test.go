package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issueInput struct {
	Title     string `json:"title" validate:"issue_title"`
	IssueType string `json:"issue_type" validate:"required,issue_type"`
	Status    string `json:"status" validate:"omitempty,issue_status"`
}

func TestValidate_AcceptsKnownValues(t *testing.T) {
	v := New()

	err := v.Validate(issueInput{Title: "Missing CAT mark", IssueType: "Missing Marks", Status: "InProgress"})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(issueInput{Title: "  ", IssueType: "Complaint", Status: "Bogus"})
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, errs, 3)

	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.ElementsMatch(t, []string{"title", "issue_type", "status"}, fields)
}

func TestValidate_TitleTooLong(t *testing.T) {
	v := New()

	err := v.Validate(issueInput{Title: strings.Repeat("x", 201), IssueType: "Appeals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestValidateVar(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateVar("status", "Solved", "issue_status"))

	err := v.ValidateVar("status", "Bogus", "issue_status")
	require.Error(t, err)
	errs := err.(ValidationErrors)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
	assert.Equal(t, "issue_status", errs[0].Rule)
	assert.Contains(t, errs[0].Message, "Must be one of")
}

func TestValidateVar_UserRole(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateVar("role", "HOD", "user_role"))
	assert.Error(t, v.ValidateVar("role", "teacher", "user_role"))
}
