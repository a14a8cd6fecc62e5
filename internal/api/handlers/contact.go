package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
	"github.com/osa911/contact-api/internal/service"
	"github.com/osa911/contact-api/internal/utils"
)

// SubmissionProcessor handles one validated contact form submission
type SubmissionProcessor interface {
	ProcessContactForm(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error)
}

type ContactHandler struct {
	processor SubmissionProcessor
}

func NewContactHandler(processor SubmissionProcessor) *ContactHandler {
	return &ContactHandler{processor: processor}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	// Get contact data from context (set by validation middleware)
	contactData, exists := c.Get(constants.ContextKeyContact)
	if !exists {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Contact data not found in context")
		return
	}

	contactPtr, ok := contactData.(*contact.ContactRequest)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid contact data format")
		return
	}

	meta := &service.SubmissionMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		RequestID: c.GetString(constants.ContextKeyRequestID),
	}

	result, err := h.processor.ProcessContactForm(c.Request.Context(), contactPtr, meta)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to send message")
		return
	}
	if result == nil {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to send message")
		return
	}

	utils.HandleResult(c, result)
}
