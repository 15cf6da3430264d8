package routes

import (
	"strings"

	"bidnest/internal/handlers"
	"bidnest/internal/middleware"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up the back office under /api/<ADMIN_PAGE_SLUG>
func SetupAdminRoutes(api *gin.RouterGroup) {
	slug := strings.Trim(dbconfig.App.AdminPageSlug, "/")
	if slug == "" {
		slug = "admin"
	}
	admin := api.Group("/" + slug)

	admin.POST("/auth", rateLimited(), handlers.AdminLogin)
	admin.DELETE("/auth", handlers.AdminLogout)

	guarded := admin.Group("", middleware.AdminAuth())
	{
		guarded.GET("/data", handlers.AdminData)

		guarded.PUT("/users/:id", handlers.AdminUpdate("users"))
		guarded.DELETE("/users/:id", handlers.AdminDeleteUser)

		guarded.PUT("/groups/:id", handlers.AdminUpdate("groups"))
		guarded.DELETE("/groups/:id", handlers.AdminDeleteGroup)

		guarded.PUT("/members/:id", handlers.AdminUpdate("members"))
		guarded.DELETE("/members/:id", handlers.AdminDeleteMember)

		guarded.PUT("/chit-members/:id", handlers.AdminUpdate("chit-members"))
		guarded.DELETE("/chit-members/:id", handlers.AdminDeleteChitMember)

		guarded.PUT("/auctions/:id", handlers.AdminUpdate("auctions"))
		guarded.DELETE("/auctions/:id", handlers.AdminDeleteAuction)

		guarded.PUT("/payments/:id", handlers.AdminUpdate("payments"))
		guarded.DELETE("/payments/:id", handlers.AdminDeletePayment)

		guarded.DELETE("/audit-logs/:id", handlers.AdminDeleteAuditLog)
	}
}
