package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/issue-service/internal/services"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// DepartmentHandler serves the HOD dashboard endpoints.
type DepartmentHandler struct {
	BaseHandler
	departmentService services.DepartmentService
	issueService      services.IssueService
	exportService     services.ExportService
}

func NewDepartmentHandler(
	departmentService services.DepartmentService,
	issueService services.IssueService,
	exportService services.ExportService,
	logger utils.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		departmentService: departmentService,
		issueService:      issueService,
		exportService:     exportService,
	}
}

func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	department, err := h.departmentService.GetDepartment(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) ListDepartmentIssues(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := parseIssueFilters(c)
	issues, total, err := h.departmentService.ListDepartmentIssues(c.Request.Context(), user, id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items:  issues,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// ExportDepartmentIssues streams the department's issues as an XLSX workbook.
func (h *DepartmentHandler) ExportDepartmentIssues(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	h.LogRequest(c, "Exporting department issues", "department_id", id)

	result, err := h.exportService.ExportDepartmentIssues(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *DepartmentHandler) ListDepartmentStaff(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	staff, err := h.departmentService.ListDepartmentStaff(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *DepartmentHandler) ListDepartmentCourses(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	courses, err := h.departmentService.ListDepartmentCourses(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// AssignDepartmentIssue is the HOD-scoped assignment endpoint.
func (h *DepartmentHandler) AssignDepartmentIssue(c *gin.Context) {
	departmentID := parseIDParam(c, "id")
	if departmentID == 0 {
		return
	}
	issueID := parseIDParam(c, "issue_id")
	if issueID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	var req services.AssignIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Assigning department issue",
		"department_id", departmentID,
		"issue_id", issueID,
		"assignee_id", req.UserID)

	issue, err := h.issueService.AssignDepartmentIssue(c.Request.Context(), user, departmentID, issueID, req.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *DepartmentHandler) GetUserDepartment(c *gin.Context) {
	userID := parseIDParam(c, "id")
	if userID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	department, err := h.departmentService.GetUserDepartment(c.Request.Context(), user, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, department)
}
