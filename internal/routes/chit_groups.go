package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupChitGroupRoutes sets up all routes related to chit groups
func SetupChitGroupRoutes(api *gin.RouterGroup) {
	groups := api.Group("/chit-groups")
	{
		groups.GET("", handlers.ListChitGroups)
		groups.GET("/:id", handlers.GetChitGroup)
		groups.POST("", handlers.CreateChitGroup)
		groups.PUT("/:id", handlers.UpdateChitGroup)
		groups.DELETE("/:id", handlers.DeleteChitGroup)
	}
}
