package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/api/middleware"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/telemetry"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetLogger()

	// Operational endpoints
	SetupHealthRoutes(router, h.Health, h.Metrics)

	// Contact routes (public)
	SetupContactRoutes(router.Group("/api"), h.Contact, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrCodeNotFound, "Resource not found", nil))
	})

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, opts GlobalOptions) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.Middleware(opts.TracerProvider))
	router.Use(middleware.Metrics(opts.Metrics))
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(opts.Production))
	router.Use(middleware.PreserveRequestBody(opts.MaxBodyBytes))
}
