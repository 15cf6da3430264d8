package routes

import (
	"bidnest/internal/handlers"
	"bidnest/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up account routes. Creating a user needs no session
// so the first account can be bootstrapped.
func SetupUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.POST("", rateLimited(), handlers.CreateUser)
		users.GET("", middleware.Auth(), handlers.ListUsers)
	}
}
