package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contact-api/internal/metrics"
)

func TestClientLimiter_PerKey(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RPS: 1, Burst: 2})
	now := time.Unix(1700000000, 0)

	ok, _ := l.Allow("a", now)
	assert.True(t, ok)
	ok, remaining := l.Allow("a", now)
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)
	ok, _ = l.Allow("a", now)
	assert.False(t, ok)

	ok, _ = l.Allow("b", now)
	assert.True(t, ok, "other clients keep their own bucket")

	ok, _ = l.Allow("a", now.Add(time.Second))
	assert.True(t, ok, "token refills")
}

func TestClientLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewClientLimiter(RateLimitConfig{}))
	var l *ClientLimiter
	ok, _ := l.Allow("a", time.Now())
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.POST("/", RateLimitMiddleware(RateLimitConfig{RPS: 0.01, Burst: 1}, metrics.New(prometheus.NewRegistry())),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	sent := 0
	send := func(ip string) *httptest.ResponseRecorder {
		sent++
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", sent))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", sent))
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1").Code)
	w := send("203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "forwarding headers from an untrusted peer do not pick the bucket")
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
	assert.Equal(t, "100", w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2").Code)
}

func TestClientLimiter_BoundsTrackedClients(t *testing.T) {
	l := NewClientLimiter(RateLimitConfig{RPS: 1, Burst: 1, MaxClients: 4})
	now := time.Unix(1700000000, 0)

	for i := 0; i < 20; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), now.Add(time.Duration(i)*2*time.Second))
	}
	assert.LessOrEqual(t, l.Len(), 4)

	// a client still inside its window is never forgotten
	later := now.Add(40 * time.Second)
	ok, _ := l.Allow("10.0.0.99", later)
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.99", later)
	assert.False(t, ok)
	for i := 0; i < 10; i++ {
		l.Allow(fmt.Sprintf("10.0.1.%d", i), later)
	}
	ok, _ = l.Allow("10.0.0.99", later)
	assert.False(t, ok)
}
