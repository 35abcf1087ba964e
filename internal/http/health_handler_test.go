package http

import (
	"net/http"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	s := newTestServer()

	w := do(t, s.router(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"reachable"}`, w.Body.String())
}

func TestHealth_ProviderDown(t *testing.T) {
	s := newTestServer()
	s.pinger = mockPinger{err: domain.ErrProviderUnavailable}

	w := do(t, s.router(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","provider":"unreachable"}`, w.Body.String())
}
