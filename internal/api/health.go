package api

import (
	"net/http"

	"github.com/walleto/walleto/internal/store"
	"github.com/walleto/walleto/pkg/httpx"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	Store store.Store
}

func (h *HealthHandler) Livez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
