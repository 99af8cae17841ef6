package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/issue-service/internal/services"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	issueHandler        *IssueHandler
	departmentHandler   *DepartmentHandler
	notificationHandler *NotificationHandler
	authMiddleware      gin.HandlerFunc
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware gin.HandlerFunc,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		issueHandler: NewIssueHandler(serviceManager.Issue(), logger),
		departmentHandler: NewDepartmentHandler(
			serviceManager.Department(),
			serviceManager.Issue(),
			serviceManager.Export(),
			logger,
		),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware)
	{
		issues := v1.Group("/issues")
		{
			issues.GET("", hm.issueHandler.ListIssues)
			issues.POST("", hm.issueHandler.CreateIssue)
			issues.GET("/:id", hm.issueHandler.GetIssue)
			issues.PATCH("/:id/status", hm.issueHandler.UpdateStatus)
			issues.POST("/:id/assign", hm.issueHandler.AssignIssue)
		}

		departments := v1.Group("/departments")
		{
			departments.GET("/:id", hm.departmentHandler.GetDepartment)
			departments.GET("/:id/issues", hm.departmentHandler.ListDepartmentIssues)
			departments.GET("/:id/issues/export", hm.departmentHandler.ExportDepartmentIssues)
			departments.GET("/:id/staff", hm.departmentHandler.ListDepartmentStaff)
			departments.GET("/:id/courses", hm.departmentHandler.ListDepartmentCourses)
			departments.POST("/:id/issues/:issue_id/assign", hm.departmentHandler.AssignDepartmentIssue)
		}

		users := v1.Group("/users")
		{
			users.GET("/:id/department", hm.departmentHandler.GetUserDepartment)
			users.GET("/:id/issues", hm.issueHandler.ListStaffIssues)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.GET("/unread-count", hm.notificationHandler.UnreadCount)
			notifications.POST("/read-all", hm.notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "issue-service",
	})
}
