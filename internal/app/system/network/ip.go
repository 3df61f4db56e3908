// Package network provides network-related utilities.
package network

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the client address used to key login rate limits.
// The first X-Forwarded-For hop wins, then X-Real-IP, then RemoteAddr
// without its port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
