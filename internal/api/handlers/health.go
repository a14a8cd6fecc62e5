package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/utils"
	"github.com/osa911/contact-api/internal/version"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of a healthy /health response
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			utils.HandleAPIError(c, err, http.StatusServiceUnavailable, common.ErrCodeUnavailable, "Storage connection error")
			return
		}
	}

	utils.HandleSuccess(c, HealthStatus{
		Status:  "ok",
		Version: version.Version,
	})
}
