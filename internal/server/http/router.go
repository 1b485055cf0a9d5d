package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskboard/internal/logging"
	"taskboard/internal/observability"
	"taskboard/internal/server/app"
)

// RouterConfig carries the knobs the router needs from the caller.
type RouterConfig struct {
	// Environment toggles gin's release mode for anything that is not
	// development.
	Environment string

	// AllowedOrigins restricts CORS. Empty allows every origin, which is
	// only sensible for local development.
	AllowedOrigins []string

	// RequestTimeout bounds non-streaming requests. Zero disables it.
	RequestTimeout time.Duration

	// IntakeRateLimit applies to the upload route only.
	IntakeRateLimit RateLimitConfig

	// Tracer instruments requests when set.
	Tracer *observability.TracerProvider
}

// NewRouter assembles the board API routes.
func NewRouter(service *app.Service, health *app.HealthChecker, cfg RouterConfig) http.Handler {
	logger := logging.NewComponentLogger("Router")

	if !strings.EqualFold(cfg.Environment, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(TracingMiddleware(cfg.Tracer))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	apiHandler := NewAPIHandler(service, health)
	streamHandler := NewStreamHandler(service)

	engine.GET("/health", apiHandler.HandleHealthCheck)

	api := engine.Group("/api")
	{
		api.GET("/limits", apiHandler.HandleLimits)
		api.GET("/payloads/:digest", apiHandler.HandleGetPayload)

		editors := api.Group("/editors")
		{
			editors.POST("", apiHandler.HandleCreateEditor)
			editors.GET("", apiHandler.HandleListEditors)
			editors.GET("/:id", apiHandler.HandleGetEditor)
			editors.DELETE("/:id", apiHandler.HandleDeleteEditor)

			editors.POST("/:id/attachments", RateLimitMiddleware(cfg.IntakeRateLimit), apiHandler.HandleAddAttachments)
			editors.GET("/:id/attachments", apiHandler.HandleListAttachments)
			editors.DELETE("/:id/attachments/:attachmentID", apiHandler.HandleRemoveAttachment)
			editors.POST("/:id/attachments/clear", apiHandler.HandleClearAttachments)

			editors.GET("/:id/events", streamHandler.HandleEvents)
		}
	}

	return RequestTimeoutMiddleware(cfg.RequestTimeout)(engine)
}
