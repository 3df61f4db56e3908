// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables (STRATALEADS_MONGO_URI, ...).
const EnvVarPrefix = "STRATALEADS"

var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strataleads", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "store_short_timeout", Default: "5s", Desc: "Timeout for single-row store calls"},
	{Name: "store_medium_timeout", Default: "10s", Desc: "Timeout for list and aggregation store calls"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "strataleads-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age"},

	{Name: "rate_limit_enabled", Default: true, Desc: "Enable rate limiting for login attempts"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	{Name: "storage_type", Default: "local", Desc: "Image storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded images"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local images"},
	{Name: "upload_max_bytes", Default: 10 << 20, Desc: "Maximum post image size in bytes"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for user preferences (blank stores them in MongoDB)"},

	{Name: "competitor_webhook_url", Default: "", Desc: "Competitor ingestion webhook"},
	{Name: "content_webhook_url", Default: "", Desc: "Content workflow webhook"},
	{Name: "relay_timeout", Default: "30s", Desc: "Client timeout for webhook calls"},

	{Name: "list_refresh_interval", Default: "60s", Desc: "Refresh period of polled list fragments"},
	{Name: "post_watch_interval", Default: "2s", Desc: "Poll period while waiting for a submitted post"},
	{Name: "post_watch_max_runs", Default: 15, Desc: "Polls before a submitted post is reported as timed out"},
	{Name: "comment_tables_interval", Default: "5m", Desc: "Period of the comment-tables job"},

	{Name: "content_submit_mode", Default: SubmitOptimistic, Desc: "Post form submit: 'optimistic' or 'await'"},
	{Name: "time_zone", Default: timezones.Default, Desc: "IANA zone for typed and displayed post dates"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL (OAuth redirect)"},

	{Name: "seed_admin_email", Default: "", Desc: "Email of the account to create on startup"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of the seeded account"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded account (blank means Google sign-in)"},
	{Name: "seed_demo_data", Default: false, Desc: "Seed demo competitors, posts and leads into an empty database"},
}

// LoadConfig loads WAFFLE core config and StrataLeads config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, v, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:           v.String("mongo_uri"),
		MongoDatabase:      v.String("mongo_database"),
		MongoMaxPoolSize:   uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize:   uint64(v.Int("mongo_min_pool_size")),
		StoreShortTimeout:  v.Duration("store_short_timeout", 5*time.Second),
		StoreMediumTimeout: v.Duration("store_medium_timeout", 10*time.Second),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 24*time.Hour),

		RateLimitEnabled:       v.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: v.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   v.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  v.Duration("rate_limit_login_lockout", 15*time.Minute),

		CSRFKey: v.String("csrf_key"),

		StorageType:        v.String("storage_type"),
		StorageLocalPath:   v.String("storage_local_path"),
		StorageLocalURL:    v.String("storage_local_url"),
		UploadMaxBytes:     int64(v.Int("upload_max_bytes")),
		StorageS3Region:    v.String("storage_s3_region"),
		StorageS3Bucket:    v.String("storage_s3_bucket"),
		StorageS3Prefix:    v.String("storage_s3_prefix"),
		StorageCFURL:       v.String("storage_cf_url"),
		StorageCFKeyPairID: v.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   v.String("storage_cf_key_path"),

		RedisURL: v.String("redis_url"),

		CompetitorWebhookURL: v.String("competitor_webhook_url"),
		ContentWebhookURL:    v.String("content_webhook_url"),
		RelayTimeout:         v.Duration("relay_timeout", 30*time.Second),

		ListRefreshInterval:   v.Duration("list_refresh_interval", 60*time.Second),
		PostWatchInterval:     v.Duration("post_watch_interval", 2*time.Second),
		PostWatchMaxRuns:      v.Int("post_watch_max_runs"),
		CommentTablesInterval: v.Duration("comment_tables_interval", 5*time.Minute),

		ContentSubmitMode: v.String("content_submit_mode"),
		TimeZone:          v.String("time_zone"),

		GoogleClientID:     v.String("google_client_id"),
		GoogleClientSecret: v.String("google_client_secret"),
		BaseURL:            v.String("base_url"),

		SeedAdminEmail:    v.String("seed_admin_email"),
		SeedAdminName:     v.String("seed_admin_name"),
		SeedAdminPassword: v.String("seed_admin_password"),
		SeedDemoData:      v.Bool("seed_demo_data"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects a config the server cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for key, raw := range map[string]string{
		"competitor_webhook_url": appCfg.CompetitorWebhookURL,
		"content_webhook_url":    appCfg.ContentWebhookURL,
	} {
		if raw == "" {
			logger.Warn("webhook not configured, related actions will fail", zap.String("key", key))
			continue
		}
		if err := validateWebhookURL(raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	switch appCfg.ContentSubmitMode {
	case SubmitOptimistic, SubmitAwait:
	default:
		return fmt.Errorf("content_submit_mode must be %q or %q, got %q", SubmitOptimistic, SubmitAwait, appCfg.ContentSubmitMode)
	}

	if _, err := timezones.Load(appCfg.TimeZone); err != nil {
		return err
	}

	if appCfg.PostWatchMaxRuns <= 0 {
		return fmt.Errorf("post_watch_max_runs must be positive, got %d", appCfg.PostWatchMaxRuns)
	}
	if appCfg.ListRefreshInterval < time.Second {
		return fmt.Errorf("list_refresh_interval must be at least 1s, got %s", appCfg.ListRefreshInterval)
	}
	for key, d := range map[string]time.Duration{
		"post_watch_interval":     appCfg.PostWatchInterval,
		"comment_tables_interval": appCfg.CommentTablesInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}
	return nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}
