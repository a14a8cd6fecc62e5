package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client IP. X-Forwarded-For and X-Real-IP are honoured
// only when the connecting peer is one of the engine's trusted proxies,
// otherwise the socket address is used.
func GetRealIP(c *gin.Context) string {
	return c.ClientIP()
}
