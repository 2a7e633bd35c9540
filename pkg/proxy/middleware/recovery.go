package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"ollamagate/pkg/proxy"
)

// Recovery recovers from panics in handlers and returns a structured 500
// response. The panic and stack trace are logged; internals are not
// exposed to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteFailure(w, http.StatusInternalServerError,
					"An internal error occurred.", nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
