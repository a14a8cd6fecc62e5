package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/contact-api/internal/api/handlers"
	"github.com/osa911/contact-api/internal/api/middleware"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/metrics"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	Metrics http.Handler
}

// Middleware contains the route-level middleware
type Middleware struct {
	Validation       *middleware.ValidationMiddleware
	ContactRateLimit gin.HandlerFunc
}

// GlobalOptions configures the middleware applied to every request
type GlobalOptions struct {
	Logger         *logging.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
	AllowedOrigins []string
	MaxBodyBytes   int64
	Production     bool
}
