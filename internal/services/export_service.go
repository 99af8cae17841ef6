package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportPageSize  = 200
)

var issueExportHeaders = []string{
	"ID", "Title", "Type", "Status", "Course", "Student", "Assigned To", "Created At", "Updated At",
}

type exportService struct {
	departments DepartmentService
	logger      *slog.Logger
}

func NewExportService(departments DepartmentService, logger *slog.Logger) ExportService {
	return &exportService{
		departments: departments,
		logger:      logger,
	}
}

// ExportDepartmentIssues writes every issue of the department to an XLSX
// workbook, subject to the same access rules as the department issue list.
func (s *exportService) ExportDepartmentIssues(ctx context.Context, principal *models.User, departmentID uint) (*ExportResult, error) {
	department, err := s.departments.GetDepartment(ctx, principal, departmentID)
	if err != nil {
		return nil, err
	}

	var issues []*models.Issue
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.departments.ListDepartmentIssues(ctx, principal, departmentID, repositories.IssueFilters{
			Limit:     exportPageSize,
			Offset:    offset,
			SortBy:    "created_at",
			SortOrder: "asc",
		})
		if err != nil {
			return nil, err
		}
		issues = append(issues, page...)
		if len(page) == 0 || int64(len(issues)) >= total {
			break
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Issues"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for col, header := range issueExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, issue := range issues {
		for col, value := range issueRow(issue) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported department issues",
		"department_id", departmentID,
		"user_id", principal.ID,
		"rows", len(issues))

	return &ExportResult{
		FileName:    fmt.Sprintf("%s-issues-%s.xlsx", department.Code, time.Now().UTC().Format("20060102")),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
		RowCount:    len(issues),
	}, nil
}

func issueRow(issue *models.Issue) []interface{} {
	course, student, assignee := "", "", ""
	if issue.Course != nil {
		course = issue.Course.Code
	}
	if issue.Student != nil {
		student = issue.Student.FullName()
	}
	if issue.AssignedTo != nil {
		assignee = issue.AssignedTo.FullName()
	}

	return []interface{}{
		issue.ID,
		issue.Title,
		string(issue.IssueType),
		string(issue.Status),
		course,
		student,
		assignee,
		issue.CreatedAt.Format(time.RFC3339),
		issue.UpdatedAt.Format(time.RFC3339),
	}
}
