package routes

import (
	"bidnest/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuctionRoutes sets up auction recording and lookup routes
func SetupAuctionRoutes(api *gin.RouterGroup) {
	auctions := api.Group("/auctions")
	{
		auctions.GET("", handlers.ListAuctions)
		auctions.GET("/:id", handlers.GetAuction)
		auctions.POST("", handlers.CreateAuction)
		auctions.POST("/preview", handlers.PreviewAuction)
	}
}
