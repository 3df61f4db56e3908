// internal/app/features/authgoogle/authgoogle.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	"github.com/dalemusser/strataleads/internal/app/features/login"
	"github.com/dalemusser/strataleads/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/strataleads/internal/app/store/users"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Handler provides Google sign-in handlers. Only existing Google accounts
// may sign in; there is no self-registration.
type Handler struct {
	userStore   *userstore.Store
	sessionMgr  *auth.SessionManager
	errLog      *errorsfeature.ErrorLogger
	states      *oauthstate.Store
	oauthConfig *oauth2.Config
	userInfoURL string
	logger      *zap.Logger
}

// NewHandler creates a new Google sign-in Handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	states *oauthstate.Store,
	clientID string,
	clientSecret string,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:  userstore.New(db),
		sessionMgr: sessionMgr,
		errLog:     errLog,
		states:     states,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
		logger:      logger,
	}
}

// Routes returns a chi.Router with Google sign-in routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

func fail(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

// startAuth stores a state token with the requested return path and sends
// the browser to Google.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		h.errLog.Log(r, "failed to generate oauth state", err)
		fail(w, r, "google_failed")
		return
	}

	returnTo := urlutil.SafeReturn(query.Get(r, "return"), "", "/dashboard")
	if err := h.states.Create(r.Context(), state, returnTo); err != nil {
		h.errLog.Log(r, "failed to store oauth state", err)
		fail(w, r, "google_failed")
		return
	}

	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// handleCallback finishes the Google flow.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	returnTo, ok, err := h.states.Consume(r.Context(), query.Get(r, "state"))
	if err != nil {
		h.errLog.Log(r, "failed to read oauth state", err)
		fail(w, r, "google_failed")
		return
	}
	if !ok {
		h.logger.Warn("invalid oauth state")
		fail(w, r, "google_failed")
		return
	}

	if e := query.Get(r, "error"); e != "" {
		h.logger.Info("google sign-in refused", zap.String("error", e))
		fail(w, r, "google_failed")
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), query.Get(r, "code"))
	if err != nil {
		h.errLog.Log(r, "failed to exchange oauth code", err)
		fail(w, r, "google_failed")
		return
	}

	info, err := h.getUserInfo(r.Context(), token)
	if err != nil {
		h.errLog.Log(r, "failed to get google user info", err)
		fail(w, r, "google_failed")
		return
	}
	if !info.VerifiedEmail {
		h.logger.Info("unverified google email", zap.String("email", info.Email))
		fail(w, r, "not_registered")
		return
	}

	user, err := h.userStore.GetByLoginID(r.Context(), info.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.logger.Info("google sign-in for unknown user", zap.String("email", info.Email))
		fail(w, r, "not_registered")
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to look up user", err)
		fail(w, r, "google_failed")
		return
	}
	if user.AuthMethod != models.AuthGoogle {
		fail(w, r, "not_registered")
		return
	}
	if !user.IsActive() {
		fail(w, r, "account_disabled")
		return
	}

	if err := login.StartSession(w, r, h.sessionMgr, h.userStore, user); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		fail(w, r, "google_failed")
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", user.ID.Hex()), zap.String("method", models.AuthGoogle))
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// GoogleUserInfo is the subset of the userinfo response we read.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) getUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
