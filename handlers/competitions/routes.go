package competitions

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to competitions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	// Public routes
	competitions := r.Group("/competitions")
	{
		competitions.GET("", h.ListCompetitions)
		competitions.GET("/:slug", h.GetCompetition)
		competitions.POST("/:slug/answer", h.AnswerPuzzle)
	}

	// Live feed, kept out of the slug namespace
	r.GET("/live/competitions", h.LiveFeed)

	// Admin routes, gated by the access proxy in front of the service
	admin := r.Group("/admin/competitions")
	{
		admin.GET("", h.ListAllCompetitions)
		admin.POST("", h.CreateCompetition)
		admin.GET("/export", h.ExportCompetitions)
	}
}
