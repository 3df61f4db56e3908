package logout

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return NewHandler(sessionMgr, zap.NewNop())
}

func TestLogout_RedirectsToRoot(t *testing.T) {
	router := Routes(newTestHandler(t))

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(method, "/", testutil.SignedInUser()))
		rec.AssertRedirect(t, "/")
	}
}

func TestLogout_ExpiresCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.handleLogout(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", testutil.SignedInUser()))

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("session cookie MaxAge = %d, want negative", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected the session cookie to be cleared")
	}
}

func TestLogout_NoUserInContext(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.handleLogout(rec, testutil.NewRequest(http.MethodPost, "/logout"))
	rec.AssertRedirect(t, "/")
}
