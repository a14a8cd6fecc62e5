package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/logging/logtest"
	"github.com/osa911/contact-api/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	cleanup := logtest.Init()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		headers map[string]string
		want    string
	}{
		{name: "x-real-ip from trusted proxy", trusted: []string{"192.0.2.10"}, headers: map[string]string{"X-Real-IP": "203.0.113.1"}, want: "203.0.113.1"},
		{name: "forwarded chain through trusted proxies", trusted: []string{"192.0.2.0/24", "10.0.0.0/8"}, headers: map[string]string{"X-Forwarded-For": " 198.51.100.2 , 10.0.0.1"}, want: "198.51.100.2"},
		{name: "forwarded chain stops at untrusted hop", trusted: []string{"192.0.2.10"}, headers: map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, want: "10.0.0.1"},
		{name: "headers ignored without trusted proxies", headers: map[string]string{"X-Real-IP": "203.0.113.1", "X-Forwarded-For": "198.51.100.2"}, want: "192.0.2.10"},
		{name: "garbage header", trusted: []string{"192.0.2.10"}, headers: map[string]string{"X-Real-IP": "not-an-ip"}, want: "192.0.2.10"},
		{name: "remote addr", want: "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, engine := gin.CreateTestContext(w)
			require.NoError(t, engine.SetTrustedProxies(tt.trusted))
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = "192.0.2.10:4321"
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetRealIP(c))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(common.ErrCodeInternalServer),
			wantMsg:    "Failed to send message",
		},
		{
			name:       "status error",
			err:        service.NewBadRequestError("reCAPTCHA verification failed", service.ErrRecaptchaRejected),
			wantStatus: http.StatusBadRequest,
			wantCode:   string(common.ErrCodeBadRequest),
			wantMsg:    "reCAPTCHA verification failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/contact/submit", nil)

			HandleAPIError(c, tt.err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to send message")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var resp common.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, tt.err.Error(), resp.Error.Details)
		})
	}
}

func TestHandleAPIError_HidesDetailsInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleAPIError(c, errors.New("dsn=postgres://secret"), http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to send message")

	assert.NotContains(t, w.Body.String(), "secret")
}
