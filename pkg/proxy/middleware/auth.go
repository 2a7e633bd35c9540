package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"ollamagate/pkg/proxy"
)

// Auth gates inbound requests on a bearer key from the configured set.
// An empty key set disables the gate entirely. Comparison is constant
// time per configured key.
func Auth(apiKeys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(apiKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || !keyAllowed(token, apiKeys) {
				_ = proxy.WriteFailure(w, http.StatusUnauthorized,
					"Missing or invalid API key.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func keyAllowed(token string, apiKeys []string) bool {
	allowed := false
	for _, key := range apiKeys {
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
			allowed = true
		}
	}
	return allowed
}
