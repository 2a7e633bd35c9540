package handlers

import (
	"log/slog"
	"net/http"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/endpoints"
	"ollamagate/pkg/proxy"
)

// EndpointsHandler serves the configured endpoint urls. Credentials are
// never included.
type EndpointsHandler struct {
	Client *backend.Client
}

// NewEndpointsHandler creates the endpoint-listing handler.
func NewEndpointsHandler(client *backend.Client) *EndpointsHandler {
	return &EndpointsHandler{Client: client}
}

// ServeHTTP implements http.Handler.
func (h *EndpointsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use GET.", nil)
		return
	}

	_ = proxy.WriteJSON(w, http.StatusOK, h.Client.Registry().URLs())
}

// SetEndpointHandler selects the active backend target.
type SetEndpointHandler struct {
	Client *backend.Client
	Active *endpoints.ActiveTarget
}

// NewSetEndpointHandler creates the endpoint-selection handler.
func NewSetEndpointHandler(client *backend.Client, active *endpoints.ActiveTarget) *SetEndpointHandler {
	return &SetEndpointHandler{Client: client, Active: active}
}

// ServeHTTP implements http.Handler. The target is updated regardless of
// the probe outcome; the probe only shapes the response.
func (h *SetEndpointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use POST.", nil)
		return
	}

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := proxy.DecodeJSON(r, &req); err != nil {
		_ = proxy.WriteValidationFailure(w, err.(*proxy.ValidationError))
		return
	}
	if req.Endpoint == "" {
		_ = proxy.WriteValidationFailure(w, &proxy.ValidationError{
			Field:   "endpoint",
			Message: "endpoint is required",
		})
		return
	}

	h.Active.Set(req.Endpoint)

	if err := h.Client.Probe(r.Context(), req.Endpoint); err != nil {
		slog.WarnContext(r.Context(), "selected endpoint failed connectivity probe",
			"endpoint", req.Endpoint,
			"error", err,
		)
		_ = proxy.WriteFailure(w, http.StatusInternalServerError,
			"Selected endpoint failed connectivity probe.", err)
		return
	}

	slog.InfoContext(r.Context(), "active endpoint selected", "endpoint", req.Endpoint)
	_ = proxy.WriteSuccess(w)
}
