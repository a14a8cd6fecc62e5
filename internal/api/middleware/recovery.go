package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/utils"
)

// Recovery turns a panic into a 500 envelope and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.GetLogger().Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					utils.GetRealIP(c),
					c.GetString(constants.ContextKeyRequestID),
					rec,
					debug.Stack(),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(
					common.ErrCodeInternalServer,
					"Internal server error",
					nil,
				))
			}
		}()

		c.Next()
	}
}

