package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contact-api/internal/api/constants"
	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
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

// Mock SubmissionProcessor
type mockProcessor struct {
	processFunc func(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error)
	calls       int
	lastReq     *contact.ContactRequest
	lastMeta    *service.SubmissionMeta
}

func (m *mockProcessor) ProcessContactForm(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error) {
	m.calls++
	m.lastReq = req
	m.lastMeta = meta
	if m.processFunc != nil {
		return m.processFunc(ctx, req, meta)
	}
	return &contact.ContactResponse{Success: true, Message: "ok", ID: "id-1"}, nil
}

func submit(h *ContactHandler, payload interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.POST("/submit", func(c *gin.Context) {
		c.Set(constants.ContextKeyRequestID, "req-7")
		if payload != nil {
			c.Set(constants.ContextKeyContact, payload)
		}
		h.Submit(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("User-Agent", "handler-test")
	req.RemoteAddr = "203.0.113.9:40000"
	r.ServeHTTP(w, req)
	return w
}

func TestContactHandler_Submit(t *testing.T) {
	payload := &contact.ContactRequest{Name: "Jane Doe", Email: "jane@example.com", Message: "Hello there!"}

	tests := []struct {
		name       string
		payload    interface{}
		process    func(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error)
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "success returns collaborator result",
			payload:    payload,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:    "collaborator failure",
			payload: payload,
			process: func(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error) {
				return nil, errors.New("store down")
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(common.ErrCodeInternalServer),
			wantCalls:  1,
		},
		{
			name:    "collaborator status error",
			payload: payload,
			process: func(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error) {
				return nil, service.NewBadRequestError("reCAPTCHA verification failed", service.ErrRecaptchaRejected)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(common.ErrCodeBadRequest),
			wantCalls:  1,
		},
		{
			name:    "nil result is never an empty success",
			payload: payload,
			process: func(ctx context.Context, req *contact.ContactRequest, meta *service.SubmissionMeta) (*contact.ContactResponse, error) {
				return nil, nil
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(common.ErrCodeInternalServer),
			wantCalls:  1,
		},
		{
			name:       "missing payload",
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(common.ErrCodeInternalServer),
		},
		{
			name:       "wrong payload type",
			payload:    "not a request",
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(common.ErrCodeInternalServer),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &mockProcessor{processFunc: tt.process}
			w := submit(NewContactHandler(processor), tt.payload)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, processor.calls)

			if tt.wantStatus == http.StatusOK {
				var resp contact.ContactResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, contact.ContactResponse{Success: true, Message: "ok", ID: "id-1"}, resp)
				assert.Same(t, payload, processor.lastReq)
				assert.Equal(t, &service.SubmissionMeta{
					IPAddress: "203.0.113.9",
					UserAgent: "handler-test",
					RequestID: "req-7",
				}, processor.lastMeta)
				return
			}

			var resp common.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
	}{
		{name: "no store", wantStatus: http.StatusOK},
		{name: "healthy store", store: &mockPinger{}, wantStatus: http.StatusOK},
		{name: "store down", store: &mockPinger{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			_, r := gin.CreateTestContext(w)
			r.GET("/health", NewHealthHandler(tt.store).Check)
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"success":true,"data":{"status":"ok","version":"dev"}}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "SERVICE_UNAVAILABLE")
			}
		})
	}
}
