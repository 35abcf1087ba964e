package http

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider Pinger
	timeout  time.Duration
}

func NewHealthHandler(provider Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{provider: provider, timeout: timeout}
}

type HealthResponseDTO struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

// GET /health
// The storefront is degraded while the payment provider cannot be reached.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.provider.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponseDTO{Status: "degraded", Provider: "unreachable"})
		return
	}
	respondJSON(w, http.StatusOK, HealthResponseDTO{Status: "ok", Provider: "reachable"})
}
