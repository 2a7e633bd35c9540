package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/proxy"
)

// ModelsHandler serves the model listing (GET) and batched deletion
// (DELETE) on /api/models.
type ModelsHandler struct {
	Client *backend.Client
}

// NewModelsHandler creates the model listing/deletion handler.
func NewModelsHandler(client *backend.Client) *ModelsHandler {
	return &ModelsHandler{Client: client}
}

// ServeHTTP implements http.Handler.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use GET or DELETE.", nil)
	}
}

func (h *ModelsHandler) list(w http.ResponseWriter, r *http.Request) {
	models, err := h.Client.ListModels(r.Context())
	if err != nil {
		_ = proxy.WriteFailure(w, http.StatusInternalServerError,
			"Failed to list models.", err)
		return
	}

	_ = proxy.WriteJSON(w, http.StatusOK, models)
}

func (h *ModelsHandler) delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Models []string `json:"models"`
	}
	if err := proxy.DecodeJSON(r, &req); err != nil {
		_ = proxy.WriteValidationFailure(w, err.(*proxy.ValidationError))
		return
	}
	if len(req.Models) == 0 {
		_ = proxy.WriteValidationFailure(w, &proxy.ValidationError{
			Field:   "models",
			Message: "at least one model name is required",
		})
		return
	}

	// Deletions that succeed stay deleted even when siblings fail; the
	// failure response names only the models that survived.
	failed := h.Client.DeleteModels(r.Context(), req.Models)
	if len(failed) > 0 {
		_ = proxy.WriteFailure(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to delete models: %s.", strings.Join(failed, ", ")), nil)
		return
	}

	_ = proxy.WriteSuccess(w)
}

// RunningModelsHandler proxies the backend's running-model listing.
type RunningModelsHandler struct {
	Client *backend.Client
}

// NewRunningModelsHandler creates the /api/ps handler.
func NewRunningModelsHandler(client *backend.Client) *RunningModelsHandler {
	return &RunningModelsHandler{Client: client}
}

// ServeHTTP implements http.Handler.
func (h *RunningModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use GET.", nil)
		return
	}

	body, err := h.Client.ListRunning(r.Context())
	if err != nil {
		_ = proxy.WriteFailure(w, http.StatusInternalServerError,
			"Failed to list running models.", err)
		return
	}

	_ = proxy.WriteRaw(w, http.StatusOK, body)
}
