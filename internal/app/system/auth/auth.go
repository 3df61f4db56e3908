// internal/app/system/auth/auth.go

// Package auth is the login gate: a signed cookie session naming the
// user, middleware that loads that user on each request, and a guard for
// the dashboard routes.
package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultCookieName is used when no session name is configured.
const DefaultCookieName = "strataleads-session"

// Cookie values.
const (
	keySignedIn = "signed_in"
	keyUserID   = "user_id"
	keyName     = "name"
	keyLoginID  = "login_id"
)

// SessionUser is the signed-in user in the request context. Every
// signed-in user sees everything; there are no roles.
type SessionUser struct {
	ID      string
	Name    string
	LoginID string // email used to sign in
}

// UserFetcher re-reads the user behind a session. It returns nil for a
// missing or disabled account, which ends the session.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager owns the cookie store and the gate middleware.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	logger  *zap.Logger
}

// ConfigError reports a session key the server must not start with.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// NewSessionManager builds the cookie store. secure marks cookies Secure
// and refuses a short or placeholder key; outside production a weak key is
// only logged.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &ConfigError{Message: "session key is empty; provide at least 32 random characters"}
	}
	weak := len(sessionKey) < 32 || isPlaceholderKey(sessionKey)
	switch {
	case weak && secure:
		return nil, &ConfigError{Message: "session key too weak for production; provide at least 32 random characters"}
	case weak:
		logger.Warn("weak session key, production needs 32+ random characters",
			zap.Int("length", len(sessionKey)),
			zap.Bool("placeholder", isPlaceholderKey(sessionKey)))
	}
	if name == "" {
		name = DefaultCookieName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	// Lax keeps the cookie on the top-level Google callback and drops it
	// on cross-site POSTs.
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.String("domain", domain))
	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string { return sm.name }

// SetUserFetcher makes LoadSessionUser re-read the user on every request
// so a disabled account loses access at once.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SignIn writes the session cookie for a user.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, name, loginID string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values[keySignedIn] = true
	sess.Values[keyUserID] = userID.Hex()
	sess.Values[keyName] = name
	sess.Values[keyLoginID] = loginID
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	clear(sess.Values)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

type ctxKey struct{}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(ctxKey{}).(*SessionUser)
	return u, ok && u != nil
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// WithTestUser puts u in the request context, bypassing the cookie.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser puts the cookie's user into the request context. An
// unreadable cookie is logged by cause and treated as signed out.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logCookieError(r, err)
		}

		signedIn, _ := sess.Values[keySignedIn].(bool)
		userID := stringValue(sess, keyUserID)
		if !signedIn || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			r = withUser(r, &SessionUser{
				ID:      userID,
				Name:    stringValue(sess, keyName),
				LoginID: stringValue(sess, keyLoginID),
			})
			next.ServeHTTP(w, r)
			return
		}

		if u := sm.fetcher.FetchUser(r.Context(), userID); u != nil {
			r = withUser(r, u)
		} else {
			sm.logger.Info("session ended: account missing or disabled",
				zap.String("user_id", userID),
				zap.String("path", r.URL.Path))
			clear(sess.Values)
			_ = sess.Save(r, w)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn sends visitors without a session to /login, keeping the
// requested URL as ?return=. htmx gets HX-Redirect so the whole page
// navigates; non-HTML callers get a plain 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		login := "/login?return=" + url.QueryEscape(r.URL.RequestURI())
		switch {
		case r.Header.Get("HX-Request") == "true":
			w.Header().Set("HX-Redirect", login)
			w.WriteHeader(http.StatusUnauthorized)
		case strings.Contains(r.Header.Get("Accept"), "text/html"):
			http.Redirect(w, r, login, http.StatusSeeOther)
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	})
}

func stringValue(s *sessions.Session, key string) string {
	v, _ := s.Values[key].(string)
	return v
}

// isPlaceholderKey spots sample keys copied from config examples.
func isPlaceholderKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "test-key", "secret123", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
