package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ollamagate/pkg/history"
	"ollamagate/pkg/proxy"
	"ollamagate/pkg/relay"
)

// OperationLog records finished relay operations. *history.Store satisfies
// it; a nil log disables recording.
type OperationLog interface {
	Record(ctx context.Context, e history.Entry) (string, error)
}

// RelayHandler streams a long-running backend operation (model pull or
// update) to the client as newline-delimited JSON.
type RelayHandler struct {
	Relay *relay.Relay

	// Kind tags history entries ("pull" or "update").
	Kind string

	// Field is the request body field naming the model.
	Field string

	// Log receives the finished operation; may be nil.
	Log OperationLog
}

// NewPullHandler creates the /api/pull handler.
func NewPullHandler(r *relay.Relay, log OperationLog) *RelayHandler {
	return &RelayHandler{Relay: r, Kind: "pull", Field: "model", Log: log}
}

// NewUpdateModelHandler creates the /api/update-model handler. It relays
// the same backend operation as pull, with the model name arriving in a
// different request field.
func NewUpdateModelHandler(r *relay.Relay, log OperationLog) *RelayHandler {
	return &RelayHandler{Relay: r, Kind: "update", Field: "modelName", Log: log}
}

// ServeHTTP implements http.Handler. Validation happens before any
// backend I/O: a missing model name is a 400 and no backend call is made.
func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = proxy.WriteFailure(w, http.StatusMethodNotAllowed, "Use POST.", nil)
		return
	}

	var body map[string]string
	if err := proxy.DecodeJSON(r, &body); err != nil {
		_ = proxy.WriteValidationFailure(w, err.(*proxy.ValidationError))
		return
	}

	model := body[h.Field]
	if model == "" {
		_ = proxy.WriteValidationFailure(w, &proxy.ValidationError{
			Field:   h.Field,
			Message: "model name is required",
		})
		return
	}

	started := time.Now()
	endpoint := h.Relay.Target()

	res := h.Relay.Run(r.Context(), w, "/api/pull", map[string]string{"model": model})

	h.record(model, endpoint, started, res)
}

// record persists the finished operation. The request context may already
// be cancelled (client disconnect), so recording uses its own deadline.
func (h *RelayHandler) record(model, endpoint string, started time.Time, res relay.Result) {
	if h.Log == nil {
		return
	}

	entry := history.Entry{
		Kind:      h.Kind,
		Model:     model,
		Endpoint:  endpoint,
		Outcome:   res.State.String(),
		Records:   res.Records,
		StartedAt: started,
		EndedAt:   time.Now(),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.Log.Record(ctx, entry); err != nil {
		slog.Error("failed to record relay operation",
			"kind", h.Kind,
			"model", model,
			"error", err,
		)
	}
}
