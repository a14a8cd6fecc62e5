package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/utils"
)

// RequestLogger is a middleware that logs request information
// Lines are written only when the logger was configured with LOG_REQUESTS
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		logger.LogHTTPRequest(
			method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
