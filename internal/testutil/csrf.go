package testutil

import (
	"context"
	"net/http"
)

// csrfTokenKey is the context key gorilla/csrf reads the token from.
const csrfTokenKey = "gorilla.csrf.Token"

// WithCSRFToken stores a fixed token in the request context so
// csrf.Token(r), and therefore viewdata.New, works outside the CSRF
// middleware.
func WithCSRFToken(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), csrfTokenKey, "test-csrf-token-12345"))
}
