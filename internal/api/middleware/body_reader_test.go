package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/osa911/contact-api/internal/api/constants"
)

func TestPreserveRequestBody(t *testing.T) {
	r := gin.New()
	r.Use(PreserveRequestBody(16))
	r.POST("/", func(c *gin.Context) {
		raw, _ := c.Get(constants.ContextKeyRawBody)
		body, _ := io.ReadAll(c.Request.Body)
		assert.Equal(t, raw, body)
		c.String(http.StatusOK, string(body))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"a":1}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 17))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestPreserveRequestBody_UnknownLength(t *testing.T) {
	r := gin.New()
	r.Use(PreserveRequestBody(16))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
