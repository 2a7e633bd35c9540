package handlers

import (
	"net/http"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/proxy"
)

// HealthHandler reports process liveness.
type HealthHandler struct{}

// NewHealthHandler creates the /health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = proxy.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler reports readiness: the active backend must answer a
// connectivity probe.
type ReadyHandler struct {
	Client *backend.Client
}

// NewReadyHandler creates the /ready handler.
func NewReadyHandler(client *backend.Client) *ReadyHandler {
	return &ReadyHandler{Client: client}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.Probe(r.Context(), h.Client.Target()); err != nil {
		_ = proxy.WriteFailure(w, http.StatusServiceUnavailable,
			"Active backend is not reachable.", err)
		return
	}

	_ = proxy.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
