package routes

import (
	"net/http"

	"bidnest/internal/handlers"
	"bidnest/internal/metrics"
	"bidnest/internal/middleware"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), cors())

	r.Any("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/ws/auctions", middleware.Auth(), handlers.AuctionFeedHandler)

	api := r.Group("/api")
	SetupAuthRoutes(api)
	SetupUserRoutes(api)
	SetupAdminRoutes(api)

	protected := api.Group("", middleware.Auth())
	SetupMemberRoutes(protected)
	SetupChitGroupRoutes(protected)
	SetupChitMemberRoutes(protected)
	SetupAuctionRoutes(protected)
	SetupPaymentRoutes(protected)
	SetupAuditLogRoutes(protected)

	return r
}

// cors answers for the origins listed in ALLOWED_ORIGINS
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range dbconfig.App.AllowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}
		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func rateLimited() gin.HandlerFunc {
	return middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: dbconfig.App.RateLimitRPS,
		Burst:             dbconfig.App.RateLimitBurst,
	})
}
