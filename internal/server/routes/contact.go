package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/handlers"
)

// SetupContactRoutes configures contact form routes
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	public := router.Group("/contact")
	{
		// Public endpoint, rate limited per client IP
		chain := make([]gin.HandlerFunc, 0, 3)
		if m.ContactRateLimit != nil {
			chain = append(chain, m.ContactRateLimit)
		}
		chain = append(chain, m.Validation.ValidateContactRequest(), contact.Submit)
		public.POST("/submit", chain...)
	}
}
