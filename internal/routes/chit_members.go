package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupChitMemberRoutes sets up all routes related to tickets
func SetupChitMemberRoutes(api *gin.RouterGroup) {
	tickets := api.Group("/chit-members")
	{
		tickets.GET("", handlers.ListChitMembers)
		tickets.GET("/:id", handlers.GetChitMember)
		tickets.POST("", handlers.CreateChitMember)
		tickets.PUT("/:id", handlers.UpdateChitMember)
		tickets.DELETE("/:id", handlers.DeleteChitMember)
	}
}
