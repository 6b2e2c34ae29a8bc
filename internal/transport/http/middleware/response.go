package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// writeJSONError writes a JSON-encoded error body with the correct
// Content-Type. Handlers have their own envelope helpers; middleware
// rejections go through here.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// realIP resolves the client IP for rate limiting. X-Forwarded-For wins
// (first hop), then X-Real-Ip, then RemoteAddr with the port stripped.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
