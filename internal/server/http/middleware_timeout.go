package http

import (
	"net/http"
	"strings"
	"time"
)

// RequestTimeoutMiddleware bounds non-streaming requests. Websocket event
// streams stay open indefinitely and must bypass http.TimeoutHandler, which
// does not support hijacking.
func RequestTimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isStreamRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			http.TimeoutHandler(next, timeout, "request timeout").ServeHTTP(w, r)
		})
	}
}

func isStreamRequest(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, "/events")
}
