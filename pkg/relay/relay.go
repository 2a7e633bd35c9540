// Package relay forwards a backend's newline-delimited JSON stream to an
// HTTP client.
//
// A relay operation is a small state machine: it starts in StateInit,
// moves to StateStreaming once the backend call is dispatched, and ends in
// exactly one of StateComplete, StateFailed or StateClientClosed. The
// terminal transition is an atomic compare-and-swap, so teardown and the
// final write run at most once no matter which of the three termination
// triggers fires first.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/telemetry/metrics"
)

// State identifies a phase of a relay operation.
type State int32

const (
	// StateInit is the phase before the backend call is dispatched.
	StateInit State = iota

	// StateStreaming is the phase while backend chunks are forwarded.
	StateStreaming

	// StateComplete is the terminal state for a backend end-of-stream.
	StateComplete

	// StateFailed is the terminal state for a backend or dispatch error.
	StateFailed

	// StateClientClosed is the terminal state for a client disconnect.
	StateClientClosed
)

// String returns the state name for logs and metrics.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	case StateClientClosed:
		return "client_closed"
	default:
		return "unknown"
	}
}

// Relay streams backend responses to HTTP clients.
type Relay struct {
	client  *backend.Client
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates a relay backed by the given client. metrics may be nil.
func New(client *backend.Client, collector *metrics.Collector) *Relay {
	return &Relay{
		client:  client,
		metrics: collector,
		logger:  slog.Default().With("component", "relay"),
	}
}

// Target returns the backend url relay operations are dispatched to.
func (r *Relay) Target() string {
	return r.client.Target()
}

// Result describes a finished relay operation.
type Result struct {
	// State is the terminal state the operation reached.
	State State

	// Records is the number of valid records forwarded to the client.
	Records int

	// Dropped is the number of malformed fragments discarded.
	Dropped int

	// Err is the backend error for StateFailed results.
	Err error
}

// operation tracks a single relay's state. state only ever advances:
// Init -> Streaming -> terminal, with terminal entry guarded by a CAS.
type operation struct {
	state atomic.Int32
}

// advance moves the operation into a non-terminal state.
func (o *operation) advance(s State) {
	o.state.Store(int32(s))
}

// finish attempts the terminal transition. It reports whether this caller
// won the transition and therefore owns teardown.
func (o *operation) finish(from, to State) bool {
	return o.state.CompareAndSwap(int32(from), int32(to))
}

// Run POSTs payload to path on the active backend and forwards the
// response stream to w as chunked, newline-delimited JSON. It returns
// once the operation reaches a terminal state.
//
// Each raw chunk read from the backend is split on newlines and every
// non-empty line is validated as JSON on its own; lines that do not parse
// are logged and dropped without terminating the stream. Splitting is
// chunk-boundary-naive: a record spanning two raw chunks is discarded as
// two malformed fragments.
func (r *Relay) Run(ctx context.Context, w http.ResponseWriter, path string, payload any) Result {
	op := &operation{}

	r.metrics.RelayStarted()
	defer r.metrics.RelayFinished()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Transfer-Encoding", "chunked")

	resp, err := r.client.Stream(ctx, http.MethodPost, path, payload)
	if err != nil {
		res := Result{Err: err}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			if op.finish(StateInit, StateClientClosed) {
				res.State = StateClientClosed
			}
		} else if op.finish(StateInit, StateFailed) {
			res.State = StateFailed
			r.writeError(w, false, err)
		}
		r.logger.Error("relay dispatch failed",
			"path", path,
			"error", err,
		)
		r.metrics.RecordRelayOutcome(res.State.String())
		return res
	}
	defer resp.Body.Close()

	op.advance(StateStreaming)
	w.WriteHeader(http.StatusOK)
	flush(w)

	res := r.forward(ctx, w, op, resp.Body)

	r.logger.Info("relay finished",
		"path", path,
		"state", res.State.String(),
		"records", res.Records,
		"dropped", res.Dropped,
	)
	r.metrics.RecordRelayOutcome(res.State.String())
	return res
}

// forward drives the streaming phase until a terminal transition.
func (r *Relay) forward(ctx context.Context, w http.ResponseWriter, op *operation, body io.Reader) Result {
	var res Result
	buf := make([]byte, 32*1024)

	for {
		// A cancelled request context is the client-disconnect signal.
		// The backend read below is abandoned; the outbound call is not
		// guaranteed to be aborted at the transport level.
		select {
		case <-ctx.Done():
			if op.finish(StateStreaming, StateClientClosed) {
				res.State = StateClientClosed
			}
			return res
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			forwarded, dropped, writeErr := r.relayChunk(w, buf[:n])
			res.Records += forwarded
			res.Dropped += dropped
			if writeErr != nil {
				// The client went away mid-write. No further writes.
				if op.finish(StateStreaming, StateClientClosed) {
					res.State = StateClientClosed
				}
				return res
			}
		}

		if err != nil {
			if err == io.EOF {
				if op.finish(StateStreaming, StateComplete) {
					res.State = StateComplete
				}
				return res
			}

			if ctx.Err() != nil {
				if op.finish(StateStreaming, StateClientClosed) {
					res.State = StateClientClosed
				}
				return res
			}

			res.Err = err
			if op.finish(StateStreaming, StateFailed) {
				res.State = StateFailed
				r.writeError(w, true, err)
			}
			return res
		}
	}
}

// relayChunk splits one raw chunk into lines and forwards the valid ones.
// It returns the forwarded and dropped counts and the first write error.
func (r *Relay) relayChunk(w http.ResponseWriter, chunk []byte) (forwarded, dropped int, writeErr error) {
	for _, line := range bytes.Split(chunk, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if !json.Valid(line) {
			r.logger.Warn("dropping malformed stream fragment",
				"fragment_bytes", len(line),
			)
			r.metrics.RecordRelayRecord("dropped")
			dropped++
			continue
		}

		if _, err := w.Write(append(line, '\n')); err != nil {
			return forwarded, dropped, err
		}
		flush(w)
		r.metrics.RecordRelayRecord("forwarded")
		forwarded++
	}
	return forwarded, dropped, nil
}

// writeError emits the single terminal error record, unless the client is
// already gone. headersSent controls whether a status line is still owed.
func (r *Relay) writeError(w http.ResponseWriter, headersSent bool, cause error) {
	if !headersSent {
		w.WriteHeader(http.StatusOK)
	}

	record := map[string]string{
		"status": "error",
		"error":  cause.Error(),
	}
	line, err := json.Marshal(record)
	if err != nil {
		return
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return
	}
	flush(w)
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
