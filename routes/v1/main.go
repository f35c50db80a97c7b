package v1

import (
	"compsite/handlers/competitions"
	"compsite/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies are the handlers mounted under /api/v1
type Dependencies struct {
	Competitions *competitions.Handler
	RateLimiter  *middleware.RateLimiter
}

// Register the endpoints for the v1 API
func Register(r *gin.Engine, deps Dependencies) {
	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimiterMiddleware(deps.RateLimiter))
	}

	RegisterPingRoutes(v1)
	RegisterCompetitionsRoutes(v1, deps.Competitions)

	// Register metrics endpoint
	RegisterMetricsRoutes(v1)
}

// RegisterCompetitionsRoutes registers the public and admin competition routes
func RegisterCompetitionsRoutes(r *gin.RouterGroup, h *competitions.Handler) {
	competitions.RegisterRoutes(r, h)
}
