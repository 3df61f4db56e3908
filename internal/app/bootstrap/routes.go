// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authgooglefeature "github.com/dalemusser/strataleads/internal/app/features/authgoogle"
	competitorsfeature "github.com/dalemusser/strataleads/internal/app/features/competitors"
	contentwatchfeature "github.com/dalemusser/strataleads/internal/app/features/contentwatch"
	dashboardfeature "github.com/dalemusser/strataleads/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	healthfeature "github.com/dalemusser/strataleads/internal/app/features/health"
	homefeature "github.com/dalemusser/strataleads/internal/app/features/home"
	leadmagnetfeature "github.com/dalemusser/strataleads/internal/app/features/leadmagnet"
	leadsfeature "github.com/dalemusser/strataleads/internal/app/features/leads"
	loginfeature "github.com/dalemusser/strataleads/internal/app/features/login"
	logoutfeature "github.com/dalemusser/strataleads/internal/app/features/logout"
	objectivesfeature "github.com/dalemusser/strataleads/internal/app/features/objectives"
	postsfeature "github.com/dalemusser/strataleads/internal/app/features/posts"
	preferencesfeature "github.com/dalemusser/strataleads/internal/app/features/preferences"
	appresources "github.com/dalemusser/strataleads/internal/app/resources"
	"github.com/dalemusser/strataleads/internal/app/store/oauthstate"
	"github.com/dalemusser/strataleads/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/strataleads/internal/app/store/users"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/rowlock"
	"github.com/dalemusser/strataleads/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// requestTimeout bounds every request. It must outlive the webhook relay,
// which runs inside the request in await mode.
func requestTimeout(appCfg AppConfig) time.Duration {
	d := 30 * time.Second
	if t := appCfg.RelayTimeout + 10*time.Second; t > d {
		d = t
	}
	return d
}

// BuildHandler constructs the root HTTP handler.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// the Startup hook. Public routes (landing, login, health, assets) are
// mounted first; every dashboard feature sits behind RequireSignedIn and
// shares one row guard and the task runner started in Startup.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on each request so a disabled account is signed out.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.Timeout(requestTimeout(appCfg)))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)

	// Cookie name "strataleads_csrf" avoids collisions with other services
	// on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("strataleads_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			if req.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// ─────────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Embedded assets (bundled into the binary).
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Uploaded post images, local storage only.
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	r.Mount("/", homefeature.Routes(homefeature.NewHandler()))

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	// Rate limiting for login attempts (nil if disabled).
	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	loginHandler := loginfeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		errLog,
		rateLimitStore,
		googleEnabled,
		logger,
	)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, logger)))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(
			deps.MongoDatabase,
			sessionMgr,
			errLog,
			oauthstate.New(deps.MongoDatabase),
			appCfg.GoogleClientID,
			appCfg.GoogleClientSecret,
			appCfg.BaseURL,
			logger,
		)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		logger.Info("Google OAuth enabled", zap.String("redirect_url", appCfg.BaseURL+"/auth/google/callback"))
	}

	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// ─────────────────────────────────────────────────────────────────────────────
	// Signed-in dashboard
	// ─────────────────────────────────────────────────────────────────────────────

	// One guard for every row action so a double submit on any screen is
	// refused while the first is in flight.
	guard := &rowlock.Guard{}

	loc, err := timezones.Load(appCfg.TimeZone)
	if err != nil {
		logger.Error("time zone load failed", zap.Error(err))
		return nil, err
	}
	postOpts := postsfeature.Options{
		AwaitAck:       appCfg.ContentSubmitMode == SubmitAwait,
		UploadMaxBytes: appCfg.UploadMaxBytes,
		WatchInterval:  appCfg.PostWatchInterval,
		WatchMaxRuns:   appCfg.PostWatchMaxRuns,
		Location:       loc,
	}

	r.Group(func(sr chi.Router) {
		sr.Use(sessionMgr.RequireSignedIn)

		sr.Mount("/dashboard", dashboardfeature.Routes(
			dashboardfeature.NewHandler(deps.Accessor, deps.Preferences, errLog, logger)))
		sr.Mount("/objectives", objectivesfeature.Routes(
			objectivesfeature.NewHandler(deps.Accessor, deps.Preferences, errLog, logger)))
		sr.Mount("/competitors", competitorsfeature.Routes(
			competitorsfeature.NewHandler(deps.Accessor, deps.Automation, guard, loc, errLog, logger)))
		sr.Mount("/content-watch", contentwatchfeature.Routes(
			contentwatchfeature.NewHandler(deps.Accessor, loc, errLog, logger)))
		sr.Mount("/posts", postsfeature.Routes(
			postsfeature.NewHandler(deps.Accessor, deps.Automation, deps.FileStorage, taskRunner, guard, postOpts, errLog, logger)))
		sr.Mount("/leads", leadsfeature.Routes(
			leadsfeature.NewHandler(deps.Accessor, errLog, logger)))
		sr.Mount("/lead-magnet", leadmagnetfeature.Routes(
			leadmagnetfeature.NewHandler(deps.Accessor, errLog, logger)))
		sr.Mount("/preferences", preferencesfeature.Routes(
			preferencesfeature.NewHandler(deps.Preferences, logger)))
	})

	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
