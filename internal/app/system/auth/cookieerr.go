// internal/app/system/auth/cookieerr.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// cookieFault is why a session cookie could not be read.
type cookieFault int

const (
	faultNone      cookieFault = iota
	faultExpired               // old cookie, normal
	faultTampered              // MAC mismatch
	faultCorrupted             // undecodable, often a rotated key
	faultBackend               // not a decode error
)

func (f cookieFault) String() string {
	switch f {
	case faultExpired:
		return "expired"
	case faultTampered:
		return "mac_invalid"
	case faultCorrupted:
		return "corrupted"
	case faultBackend:
		return "backend"
	}
	return "none"
}

func classifyCookieError(err error) cookieFault {
	if err == nil {
		return faultNone
	}
	var sc securecookie.Error
	if !errors.As(err, &sc) || !sc.IsDecode() {
		return faultBackend
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return faultExpired
	case strings.Contains(msg, "mac") || strings.Contains(msg, "hash"):
		return faultTampered
	default:
		return faultCorrupted
	}
}

// logCookieError logs at a level matching the fault: expiry is routine,
// a bad MAC may be an attack.
func (sm *SessionManager) logCookieError(r *http.Request, err error) {
	fault := classifyCookieError(err)
	fields := []zap.Field{zap.String("fault", fault.String()), zap.String("path", r.URL.Path)}
	switch fault {
	case faultExpired:
		sm.logger.Debug("session cookie expired", fields...)
	case faultTampered:
		sm.logger.Warn("session cookie MAC invalid",
			append(fields, zap.String("remote_addr", r.RemoteAddr), zap.String("user_agent", r.UserAgent()))...)
	case faultCorrupted:
		sm.logger.Info("session cookie unreadable", fields...)
	default:
		sm.logger.Error("session store error", append(fields, zap.Error(err))...)
	}
}
