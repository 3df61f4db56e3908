// internal/app/features/logout/logout.go
package logout

import (
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides logout handlers.
type Handler struct {
	sessionMgr *auth.SessionManager
	logger     *zap.Logger
}

// NewHandler creates a new logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{sessionMgr: sessionMgr, logger: logger}
}

// Routes mounts POST /logout. GET is accepted for plain links.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.handleLogout)
	r.Get("/", h.handleLogout)
	return r
}

// handleLogout clears the session cookie and returns to the landing page.
// Signed-out callers are redirected the same way.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.logger.Info("user signed out", zap.String("user_id", user.ID))
	}
	h.sessionMgr.SignOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
