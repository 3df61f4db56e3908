// internal/app/features/preferences/preferences.go
package preferences

import (
	"net/http"
	"strconv"
	"strings"

	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler persists small per-user UI state.
type Handler struct {
	prefs  *prefstore.Store
	logger *zap.Logger
}

func NewHandler(prefs *prefstore.Store, logger *zap.Logger) *Handler {
	return &Handler{prefs: prefs, logger: logger}
}

// Routes returns a chi.Router with preference routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/sidebar", h.sidebar)
	return r
}

// sidebar stores one section's expanded flag and answers with the full
// state. The browser fires it on every toggle and ignores the reply.
func (h *Handler) sidebar(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		jsonutil.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	if err := r.ParseForm(); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "invalid form")
		return
	}
	section := strings.TrimSpace(r.PostForm.Get("section"))
	expanded, err := strconv.ParseBool(r.PostForm.Get("expanded"))
	if section == "" || err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "section and expanded are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "preferences.sidebar")
	defer cancel()
	state, err := h.prefs.SetSection(ctx, u.ID, section, expanded)
	if err != nil {
		h.logger.Warn("sidebar preference not saved",
			zap.String("user_id", u.ID),
			zap.String("section", section),
			zap.Error(err))
		jsonutil.Error(w, http.StatusBadRequest, "sidebar state not saved")
		return
	}
	jsonutil.OK(w, state)
}
