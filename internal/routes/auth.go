package routes

import (
	"bidnest/internal/handlers"
	"bidnest/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up registration, login and session routes
func SetupAuthRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("", rateLimited())
		limited.POST("/register", handlers.Register)
		limited.POST("/login", handlers.Login)

		authGroup.POST("/logout", middleware.OptionalAuth(), handlers.Logout)
		authGroup.POST("/change-password", middleware.Auth(), handlers.ChangePassword)
		authGroup.GET("/me", middleware.Auth(), handlers.Me)
	}
}
