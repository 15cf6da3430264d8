package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuditLogRoutes sets up audit log routes
func SetupAuditLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/audit-logs")
	{
		logs.GET("", handlers.ListAuditLogs)
		logs.GET("/:id", handlers.GetAuditLog)
		logs.POST("", handlers.CreateAuditLog)
	}
}
