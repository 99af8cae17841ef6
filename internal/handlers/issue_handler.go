package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/issue-service/internal/services"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type IssueHandler struct {
	BaseHandler
	issueService services.IssueService
}

func NewIssueHandler(issueService services.IssueService, logger utils.Logger) *IssueHandler {
	return &IssueHandler{
		BaseHandler:  NewBaseHandler(logger),
		issueService: issueService,
	}
}

// CreateIssue submits a new issue for the authenticated student
// @Summary Create issue
// @Tags issues
// @Accept json
// @Produce json
// @Param issue body services.CreateIssueRequest true "Issue data"
// @Success 201 {object} models.Issue
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues [post]
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	var req services.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating issue", "course_id", req.CourseID)

	issue, err := h.issueService.CreateIssue(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetIssue retrieves an issue by ID
// @Summary Get issue
// @Tags issues
// @Produce json
// @Param id path uint true "Issue ID"
// @Success 200 {object} models.Issue
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// ListIssues lists the issues visible to the caller
// @Summary List issues
// @Tags issues
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Param status query string false "Issue status"
// @Param issue_type query string false "Issue type"
// @Param course_id query uint false "Course ID"
// @Success 200 {object} ListResponse
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := parseIssueFilters(c)
	issues, total, err := h.issueService.ListIssues(c.Request.Context(), user, filters)
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

// UpdateStatus sets the issue status
// @Summary Update issue status
// @Tags issues
// @Accept json
// @Produce json
// @Param id path uint true "Issue ID"
// @Param status body services.UpdateStatusRequest true "New status"
// @Success 200 {object} models.Issue
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id}/status [patch]
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating issue status", "issue_id", id, "status", req.Status)

	issue, err := h.issueService.UpdateStatus(c.Request.Context(), user, id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// AssignIssue assigns the issue to a lecturer or HOD
// @Summary Assign issue
// @Tags issues
// @Accept json
// @Produce json
// @Param id path uint true "Issue ID"
// @Param assignee body services.AssignIssueRequest true "Assignee"
// @Success 200 {object} models.Issue
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id}/assign [post]
func (h *IssueHandler) AssignIssue(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
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

	h.LogRequest(c, "Assigning issue", "issue_id", id, "assignee_id", req.UserID)

	issue, err := h.issueService.AssignIssue(c.Request.Context(), user, id, req.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// ListStaffIssues lists the issues assigned to one staff member
// @Router /users/{id}/issues [get]
func (h *IssueHandler) ListStaffIssues(c *gin.Context) {
	staffID := parseIDParam(c, "id")
	if staffID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := parseIssueFilters(c)
	issues, total, err := h.issueService.ListStaffIssues(c.Request.Context(), user, staffID, filters)
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
