package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/dto/common"
)

// HandleSuccess sends a success response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data))
}

// HandleResult sends a collaborator result as the body, without the envelope
func HandleResult(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, result)
}
