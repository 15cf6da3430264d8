package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMemberRoutes sets up all routes related to member rosters
func SetupMemberRoutes(api *gin.RouterGroup) {
	members := api.Group("/members")
	{
		members.GET("", handlers.ListMembers)
		members.GET("/:id", handlers.GetMember)
		members.POST("", handlers.CreateMember)
		members.PUT("/:id", handlers.UpdateMember)
		members.DELETE("/:id", handlers.DeleteMember)
	}
}
