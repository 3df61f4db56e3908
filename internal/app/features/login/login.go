// internal/app/features/login/login.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The email address users type to sign in

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	"github.com/dalemusser/strataleads/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/strataleads/internal/app/store/users"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/authutil"
	"github.com/dalemusser/strataleads/internal/app/system/network"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalid     = "Email ou mot de passe incorrect."
	msgDisabled    = "Ce compte est désactivé."
	msgUseGoogle   = "Ce compte se connecte avec Google."
	msgUnavailable = "Service momentanément indisponible. Réessayez."
	msgMissing     = "Saisissez votre email et votre mot de passe."
)

// Handler provides login handlers.
type Handler struct {
	userStore      *userstore.Store
	rateLimitStore *ratelimit.Store // nil if rate limiting disabled
	sessionMgr     *auth.SessionManager
	errLog         *errorsfeature.ErrorLogger
	googleEnabled  bool
	logger         *zap.Logger
}

// NewHandler creates a new login Handler. rateLimitStore may be nil.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	rateLimitStore *ratelimit.Store,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:      userstore.New(db),
		rateLimitStore: rateLimitStore,
		sessionMgr:     sessionMgr,
		errLog:         errLog,
		googleEnabled:  googleEnabled,
		logger:         logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error         string
	LoginID       string
	ReturnURL     string
	GoogleEnabled bool
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, loginID, returnURL, errMsg string) {
	vm := LoginVM{
		BaseVM:        viewdata.New(r),
		Error:         errMsg,
		LoginID:       loginID,
		ReturnURL:     returnURL,
		GoogleEnabled: h.googleEnabled,
	}
	vm.Title = "Connexion"
	templates.Render(w, r, "login/index", vm)
}

// showLogin displays the login form. Signed-in users go straight on.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	returnURL := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
		return
	}

	errMsg := ""
	switch query.Get(r, "error") {
	case "":
	case "account_disabled":
		errMsg = msgDisabled
	case "google_failed":
		errMsg = "La connexion Google a échoué. Réessayez."
	case "not_registered":
		errMsg = "Aucun compte n'est associé à cette adresse Google."
	default:
		errMsg = msgUnavailable
	}
	h.render(w, r, "", returnURL, errMsg)
}

// handleLogin checks the password and starts a session.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	loginID := strings.TrimSpace(r.FormValue("login_id"))
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	if loginID == "" || password == "" {
		h.render(w, r, loginID, returnURL, msgMissing)
		return
	}

	keys := []string{ratelimit.LoginKey(loginID), ratelimit.IPKey(network.GetClientIP(r))}
	if msg, limited := h.checkRateLimit(r.Context(), keys); limited {
		h.logger.Warn("login rate limited", zap.String("login_id", loginID))
		h.render(w, r, loginID, returnURL, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.userStore.GetByLoginID(ctx, loginID)
	if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		h.errLog.Log(r, "database error during login lookup", err)
		h.render(w, r, loginID, returnURL, msgUnavailable)
		return
	}

	if user == nil {
		// Same bcrypt cost as a real check so response time does not
		// reveal which emails have accounts.
		authutil.CheckPassword(password, authutil.DummyHash())
		h.fail(w, r, keys, loginID, returnURL, msgInvalid)
		return
	}
	if !user.IsActive() {
		h.fail(w, r, keys, loginID, returnURL, msgDisabled)
		return
	}
	if user.AuthMethod != models.AuthPassword || user.PasswordHash == nil {
		h.render(w, r, loginID, returnURL, msgUseGoogle)
		return
	}
	if !authutil.CheckPassword(password, *user.PasswordHash) {
		h.fail(w, r, keys, loginID, returnURL, msgInvalid)
		return
	}

	if h.rateLimitStore != nil {
		for _, k := range keys {
			if err := h.rateLimitStore.ClearOnSuccess(ctx, k); err != nil {
				h.logger.Warn("failed to clear login attempts", zap.String("key", k), zap.Error(err))
			}
		}
	}

	if err := StartSession(w, r, h.sessionMgr, h.userStore, user); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", user.ID.Hex()), zap.String("method", models.AuthPassword))
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

// fail records the failure against every key and re-renders the form.
// Reaching the limit replaces msg with the lockout message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, keys []string, loginID, returnURL, msg string) {
	if h.rateLimitStore != nil {
		for _, k := range keys {
			if lockedOut, until := h.rateLimitStore.RecordFailure(r.Context(), k); lockedOut {
				msg = lockoutMessage(until)
			}
		}
	}
	h.render(w, r, loginID, returnURL, msg)
}

func (h *Handler) checkRateLimit(ctx context.Context, keys []string) (string, bool) {
	if h.rateLimitStore == nil {
		return "", false
	}
	for _, k := range keys {
		if allowed, _, until := h.rateLimitStore.CheckAllowed(ctx, k); !allowed {
			return lockoutMessage(until), true
		}
	}
	return "", false
}

func lockoutMessage(until *time.Time) string {
	if until == nil {
		return "Trop de tentatives. Réessayez plus tard."
	}
	remaining := time.Until(*until)
	if remaining > time.Minute {
		return fmt.Sprintf("Trop de tentatives. Réessayez dans %d minute(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Trop de tentatives. Réessayez dans %d seconde(s).", int(remaining.Seconds())+1)
}

// StartSession writes the session cookie for user and records the sign-in.
// The Google callback shares it.
func StartSession(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, users *userstore.Store, user *models.User) error {
	if err := sm.SignIn(w, r, user.ID, user.FullName, user.LoginID); err != nil {
		return err
	}
	// The session is valid even if the timestamp cannot be written.
	_ = users.TouchLogin(r.Context(), user.ID)
	return nil
}
