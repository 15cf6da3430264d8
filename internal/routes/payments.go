package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes sets up payment recording and tracking routes
func SetupPaymentRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	{
		payments.GET("", handlers.ListPayments)
		payments.GET("/tracking", handlers.GetPaymentTracking)
		payments.POST("", handlers.CreatePayment)
	}
}
