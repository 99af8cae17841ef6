package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/issue-service/internal/models"
	"github.com/SAP-F-2025/issue-service/internal/repositories"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

// parseIDParam writes a 400 and returns 0 when the path parameter is not a
// positive integer.
func parseIDParam(c *gin.Context, param string) uint {
	idStr := strings.TrimSpace(c.Param(param))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseUintQuery(c *gin.Context, param string) *uint {
	valueStr := c.Query(param)
	if valueStr == "" {
		return nil
	}
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(value)
	return &id
}

// parsePage reads page/size query params into limit and offset.
func parsePage(c *gin.Context) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

func parseIssueFilters(c *gin.Context) repositories.IssueFilters {
	limit, offset := parsePage(c)
	filters := repositories.IssueFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		CourseID:  parseUintQuery(c, "course_id"),
	}

	if status := c.Query("status"); status != "" {
		issueStatus := models.IssueStatus(status)
		filters.Status = &issueStatus
	}
	if issueType := c.Query("issue_type"); issueType != "" {
		t := models.IssueType(issueType)
		filters.IssueType = &t
	}

	return filters
}

func parseNotificationFilters(c *gin.Context) repositories.NotificationFilters {
	limit, offset := parsePage(c)
	filters := repositories.NotificationFilters{
		Limit:  limit,
		Offset: offset,
	}

	if readStr := c.Query("read"); readStr != "" {
		if read, err := strconv.ParseBool(readStr); err == nil {
			filters.Read = &read
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		t := models.NotificationType(typeStr)
		filters.Type = &t
	}

	return filters
}
