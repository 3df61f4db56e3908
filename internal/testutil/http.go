package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the signed-in account injected into handler requests.
type TestUser struct {
	ID    string
	Name  string
	Email string
}

// SignedInUser returns a fresh TestUser. Every signed-in user sees
// everything, so one kind of user is enough.
func SignedInUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Camille Martin",
		Email: "camille@example.com",
	}
}

// WithUser puts user in the request context, bypassing the session
// middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:      user.ID,
		Name:    user.Name,
		LoginID: user.Email,
	})
}

// NewRequest creates an anonymous request.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates a request carrying user and a CSRF
// token, ready for handlers that render forms.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithCSRFToken(WithUser(httptest.NewRequest(method, target, nil), user))
}

// NewFormRequest creates an authenticated urlencoded POST.
func NewFormRequest(target, body string, user TestUser) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithCSRFToken(WithUser(req, user))
}

// HTMX marks req as an htmx request.
func HTMX(req *http.Request) *http.Request {
	req.Header.Set("HX-Request", "true")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertions.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a See Other redirect to location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, location string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	if got := r.Header().Get("Location"); got != location {
		t.Errorf("redirect location: got %q, want %q", got, location)
	}
}

// AssertContains checks that the body contains expected.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertNotContains checks that the body does not contain unexpected.
func (r *ResponseRecorder) AssertNotContains(t interface{ Errorf(string, ...any) }, unexpected string) {
	if strings.Contains(r.Body.String(), unexpected) {
		t.Errorf("response body unexpectedly contains %q", unexpected)
	}
}
