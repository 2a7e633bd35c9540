package handlers

import (
	"net/http"

	"ollamagate/pkg/history"
	"ollamagate/pkg/proxy"
)

// HistoryHandler lists recent relay operations.
type HistoryHandler struct {
	Store *history.Store
	Limit int
}

// NewHistoryHandler creates the /api/history handler.
func NewHistoryHandler(store *history.Store, limit int) *HistoryHandler {
	return &HistoryHandler{Store: store, Limit: limit}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use GET.", nil)
		return
	}

	entries, err := h.Store.Recent(r.Context(), h.Limit)
	if err != nil {
		_ = proxy.WriteFailure(w, http.StatusInternalServerError,
			"Failed to read operation history.", err)
		return
	}

	_ = proxy.WriteJSON(w, http.StatusOK, entries)
}
