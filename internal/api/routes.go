package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pulse-analytics/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health checks (no /api/v1 prefix for standard health endpoints)
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadinessCheck)
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)
		v1.GET("/ready", handler.ReadinessCheck)

		// Posts listing
		posts := v1.Group("/posts")
		{
			posts.POST("", handler.Posts) // POST for complex filter sets
			posts.GET("", handler.Posts)  // GET for simple filters
		}

		// Aggregated analytics views
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/sentiments", handler.Sentiments)
			analytics.POST("/sentiments", handler.Sentiments)
			analytics.GET("/keywords", handler.Keywords)
			analytics.POST("/keywords", handler.Keywords)
			analytics.GET("/trend", handler.Trend)
			analytics.GET("/sources", handler.Sources)
		}
	}
}
