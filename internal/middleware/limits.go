package middleware

import (
	"net/http"
	"time"
)

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize bounds JSON API request bodies.
	DefaultMaxBodySize = 1 * MB

	// WebhookMaxBodySize bounds gateway event payloads.
	WebhookMaxBodySize = 256 * KB
)

// MaxBodySize limits the size of request bodies.
// If no size is provided, DefaultMaxBodySize is used.
// Bodies that declare a larger Content-Length are rejected with 413 up front;
// others fail on read past the limit.
func MaxBodySize(maxBytes ...int64) func(http.Handler) http.Handler {
	limit := int64(DefaultMaxBodySize)
	if len(maxBytes) > 0 {
		limit = maxBytes[0]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > limit {
				respondTooLarge(w, r, "Request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Common timeout values
const (
	// DefaultTimeout bounds API request handling.
	DefaultTimeout = 30 * time.Second

	// ReportTimeout is for report endpoints that aggregate large order sets.
	ReportTimeout = 60 * time.Second
)

// Timeout bounds request processing. A handler still running at the deadline is
// answered with 503 and its context is cancelled.
func Timeout(timeout ...time.Duration) func(http.Handler) http.Handler {
	d := DefaultTimeout
	if len(timeout) > 0 {
		d = timeout[0]
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":{"code":"unavailable","message":"Request timeout"}}`)
	}
}
