package routes

import (
	"net/http"
	"time"

	_ "compsite/docs"
	"compsite/handlers/competitions"
	"compsite/handlers/images"
	"compsite/middleware"
	v1 "compsite/routes/v1"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Options configures the HTTP router
type Options struct {
	Logger       *zap.Logger
	CorsOrigins  []string
	Competitions *competitions.Handler
	Images       *images.Handler
	RateLimiter  *middleware.RateLimiter
}

// NewRouter builds the gin engine serving the whole API
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(corsConfig(opts.CorsOrigins)))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Image proxy, outside the versioned API
	imageRoutes := r.Group("")
	imageRoutes.Use(middleware.MetricsMiddleware())
	images.RegisterRoutes(imageRoutes, opts.Images)

	v1.Register(r, v1.Dependencies{
		Competitions: opts.Competitions,
		RateLimiter:  opts.RateLimiter,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"ETag", "Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
