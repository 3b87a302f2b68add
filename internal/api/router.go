package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/request-manager/internal/engine"
	"github.com/jonesrussell/request-manager/internal/handlers"
	"github.com/jonesrussell/request-manager/internal/identity"
	"github.com/jonesrussell/request-manager/internal/logger"
)

const (
	corsMaxAgeHours = 12

	headerUser      = "X-User-ID"
	headerUserGroup = "X-User-Group"
)

// RouterConfig carries the router's external knobs.
type RouterConfig struct {
	AllowedOrigins []string
	EnableDevtools bool
}

func NewRouter(eng *engine.Engine, cfg RouterConfig, log logger.Logger) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
			headerUser, headerUserGroup,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	// Middleware
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(actorFromHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tms := router.Group("/api/tms")
	requestHandler := handlers.NewRequestHandler(eng, log)

	// Request endpoints
	requests := tms.Group("/requests")
	requests.GET("", requestHandler.List)
	requests.POST("", requestHandler.Create)
	requests.PUT("/:id", requestHandler.Update)
	requests.DELETE("/:id", requestHandler.Delete)
	requests.POST("/revert", requestHandler.Revert)
	requests.POST("/hard-delete", requestHandler.HardDelete)
	requests.POST("/import", requestHandler.Import)

	// Event batch endpoints
	events := tms.Group("/events")
	events.POST("/bulk-delete", requestHandler.BulkDelete)
	events.POST("/mark-pending-upload", requestHandler.MarkPendingUpload)

	// Export handoff
	export := tms.Group("/export")
	export.POST("/selected", requestHandler.ExportSelected)
	export.POST("/xml", requestHandler.ExportXML)

	if cfg.EnableDevtools {
		devtools := router.Group("/api/devtools")
		devtools.POST("/simulate-upload", requestHandler.SimulateUpload)
		devtools.POST("/reset", requestHandler.ResetSnapshot)
	}

	return router
}

// actorFromHeaders attaches the calling user to the request context so the
// engine records who performed each mutation.
func actorFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := identity.Actor{
			User:      c.GetHeader(headerUser),
			UserGroup: c.GetHeader(headerUserGroup),
		}
		if actor.User != "" || actor.UserGroup != "" {
			ctx := identity.WithActor(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
