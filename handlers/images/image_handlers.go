package images

import (
	"errors"
	"net/http"
	"strings"

	"compsite/services"
	"compsite/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheControl is sent with every served image
const CacheControl = "public, max-age=86400"

const (
	ErrImageNotFound    = "Image not found"
	ErrImageKeyRequired = "Image key is required"
	ErrFailedFetchImage = "Failed to fetch image"
)

// Handler serves stored competition images
type Handler struct {
	Service *services.CompetitionService
	Logger  *zap.Logger
}

// GetImage streams a stored image
// @Summary Get a competition image
// @Description Stream a stored image by key, from the path or the key query parameter
// @Tags Images
// @Produce octet-stream
// @Param key path string false "Object key"
// @Param key query string false "Object key"
// @Success 200 {file} file
// @Success 304
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /r2-images/{key} [get]
func (h *Handler) GetImage(c *gin.Context) {
	key := c.Param("key")
	if key == "" || key == "/" {
		key = c.Query("key")
	}

	object, err := h.Service.FetchImage(c.Request.Context(), key)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.As(err, &validation):
			response.Error(c, http.StatusBadRequest, ErrImageKeyRequired)
		case errors.Is(err, services.ErrImageNotFound):
			response.Error(c, http.StatusNotFound, ErrImageNotFound)
		default:
			_ = c.Error(err)
			h.logger().Error("image fetch failed", zap.String("key", key), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, ErrFailedFetchImage)
		}
		return
	}
	defer object.Body.Close()

	c.Header("Cache-Control", CacheControl)
	if object.ETag != "" {
		c.Header("ETag", object.ETag)
		if etagMatches(c.GetHeader("If-None-Match"), object.ETag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	contentType := object.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, object.Size, contentType, object.Body, nil)
}

// etagMatches applies the weak comparison of If-None-Match: any listed tag, or *, matches
func etagMatches(header, etag string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" {
			return true
		}
		if tag != "" && strings.TrimPrefix(tag, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.L()
	}
	return h.Logger
}
