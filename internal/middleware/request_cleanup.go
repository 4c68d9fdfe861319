package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxRequestBodyBytes bounds JSON request bodies.
const DefaultMaxRequestBodyBytes = 1 << 20

// DrainAndCloseRequest caps the request body at maxBodyBytes and, once the handler is done,
// drains and closes it so the connection can be reused.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
