package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(origins))
	r.POST("/api/contact/submit", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestCORS(t *testing.T) {
	origins := []string{"https://www.acme.test", "http://localhost:5173"}

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{name: "listed origin", origins: origins, method: http.MethodPost, origin: "https://www.acme.test", wantStatus: 200, wantAllowed: "https://www.acme.test"},
		{name: "second listed origin", origins: origins, method: http.MethodPost, origin: "http://localhost:5173", wantStatus: 200, wantAllowed: "http://localhost:5173"},
		{name: "unlisted origin", origins: origins, method: http.MethodPost, origin: "https://evil.example", wantStatus: 403},
		{name: "no origin header", origins: origins, method: http.MethodPost, wantStatus: 200},
		{name: "preflight", origins: origins, method: http.MethodOptions, origin: "https://www.acme.test", wantStatus: 204, wantAllowed: "https://www.acme.test"},
		{name: "preflight unlisted", origins: origins, method: http.MethodOptions, origin: "https://evil.example", wantStatus: 403},
		{name: "wildcard reflects", origins: []string{"*"}, method: http.MethodPost, origin: "https://any.example", wantStatus: 200, wantAllowed: "https://any.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCORSRouter(tt.origins)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/contact/submit", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				req.Header.Set("Access-Control-Request-Headers", "Content-Type")
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllowed != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
