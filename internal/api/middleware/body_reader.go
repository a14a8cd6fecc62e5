package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/api/dto/common"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured
const DefaultMaxBodyBytes int64 = 64 * 1024

// PreserveRequestBody middleware reads the request body once and restores it
// This allows validators and controllers to both read the body
func PreserveRequestBody(maxBodyBytes int64) gin.HandlerFunc {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return func(c *gin.Context) {
		// Only process methods that carry a request body
		if c.Request.Body == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch) {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodyBytes {
			abortTooLarge(c)
			return
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				abortTooLarge(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
				common.ErrCodeBadRequest, "Error reading request body", nil))
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		// Store body in context for the validation middleware
		c.Set(constants.ContextKeyRawBody, bodyBytes)

		c.Next()
	}
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(
		common.ErrCodePayloadTooLarge, "Request body too large", nil))
}
