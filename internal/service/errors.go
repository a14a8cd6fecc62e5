package service

import (
	"errors"
	"net/http"

	"github.com/osa911/contact-api/internal/api/dto/common"
)

// Sentinel errors for service layer
var (
	ErrRecaptchaNotConfigured = errors.New("reCAPTCHA secret key not configured")
	ErrRecaptchaTokenMissing  = errors.New("reCAPTCHA token is required")
	ErrRecaptchaRejected      = errors.New("reCAPTCHA verification failed")
	ErrTelegramNotConfigured  = errors.New("telegram bot token or chat ID not configured")
	ErrNotification           = errors.New("failed to send notification")
)

// StatusError is a service failure that carries the HTTP status and error
// code it should be answered with.
type StatusError struct {
	Status  int
	Code    common.ErrorCode
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewBadRequestError wraps err as a 400 BAD_REQUEST
func NewBadRequestError(message string, err error) *StatusError {
	return &StatusError{
		Status:  http.StatusBadRequest,
		Code:    common.ErrCodeBadRequest,
		Message: message,
		Err:     err,
	}
}
