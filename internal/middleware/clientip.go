package middleware

import (
	"context"
	"net/http"
)

const ClientIPContextKey contextKey = "client_ip"

// WithClientIP resolves the caller address once per request. Proxy headers are
// trusted; run behind a reverse proxy that overwrites them.
func WithClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ClientIPContextKey, GetClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the resolved address, falling back to the request itself.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(ClientIPContextKey).(string); ok && ip != "" {
		return ip
	}
	return GetClientIP(r)
}
