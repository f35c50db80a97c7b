package images

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the image proxy routes
// r: the router the routes are added to, outside the versioned API
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/r2-images", h.GetImage)
	r.GET("/r2-images/*key", h.GetImage)
}
