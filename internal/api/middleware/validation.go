package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
	"github.com/osa911/contact-api/internal/api/validation"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/utils"
)

// ValidationMiddleware applies the global validation policy to request bodies
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(policy validation.Policy) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.New(policy),
	}
}

// Policy returns the enforced policy
func (m *ValidationMiddleware) Policy() validation.Policy {
	return m.validator.Policy()
}

// ValidateContactRequest validates a contact form submission
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return ValidateBody[contact.ContactRequest](m, constants.ContextKeyContact)
}

// ValidateBody decodes the body into a fresh T under the policy and stores
// the *T under key. Nothing past this middleware sees undeclared members.
func ValidateBody[T any](m *ValidationMiddleware, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := rawBody(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
				common.ErrCodeBadRequest, "Error reading request body", nil))
			return
		}

		dst := new(T)
		if err := m.validator.Decode(body, dst); err != nil {
			abortValidation(c, err)
			return
		}

		c.Set(key, dst)
		c.Next()
	}
}

// rawBody prefers the copy kept by PreserveRequestBody
func rawBody(c *gin.Context) ([]byte, error) {
	if raw, ok := c.Get(constants.ContextKeyRawBody); ok {
		if body, ok := raw.([]byte); ok {
			return body, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}

func abortValidation(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		logging.GetLogger().LogHTTPError(c.Request.Method, c.Request.URL.Path, utils.GetRealIP(c),
			http.StatusBadRequest, "Validation failed", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeValidation, "Validation failed", verr.Details))
	case errors.Is(err, validation.ErrEmptyBody),
		errors.Is(err, validation.ErrMalformedBody),
		errors.Is(err, validation.ErrNotObject):
		c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(
			common.ErrCodeBadRequest, err.Error(), nil))
	default:
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to validate request")
	}
}
