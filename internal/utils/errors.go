package utils

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/service"
)

// HandleAPIError is a utility function for consistent error handling across the API
// It honours service.StatusError and ensures sensitive error details are only exposed in non-production environments
func HandleAPIError(c *gin.Context, err error, defaultStatus int, defaultCode common.ErrorCode, defaultMessage string) {
	status, code, message := defaultStatus, defaultCode, defaultMessage

	var statusErr *service.StatusError
	if errors.As(err, &statusErr) {
		status, code, message = statusErr.Status, statusErr.Code, statusErr.Message
	}

	// Log the error
	logger := logging.GetLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	// In production, don't expose error details
	var errorDetails interface{} = nil
	if gin.Mode() != gin.ReleaseMode && err != nil {
		errorDetails = err.Error()
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(code, message, errorDetails))
}
