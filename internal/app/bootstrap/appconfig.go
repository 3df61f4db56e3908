// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Content submit modes.
const (
	SubmitOptimistic = "optimistic" // redirect at once, reconcile with a bounded watch
	SubmitAwait      = "await"      // wait for the webhook ack, keep the form on failure
)

// AppConfig holds StrataLeads configuration. Values come from flags,
// STRATALEADS_* environment variables, config files and defaults, in
// that order of precedence. WAFFLE's CoreConfig carries the HTTP, TLS,
// logging and CORS settings.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Store call timeouts (timeouts.Short / timeouts.Medium)
	StoreShortTimeout  time.Duration
	StoreMediumTimeout time.Duration

	// Session cookie
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Login rate limiting
	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitLoginLockout  time.Duration

	CSRFKey string

	// Image upload storage
	StorageType      string // local | s3
	StorageLocalPath string
	StorageLocalURL  string
	UploadMaxBytes   int64

	// S3/CloudFront (StorageType "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Preferences backend; empty keeps preferences in MongoDB.
	RedisURL string

	// Automation webhooks
	CompetitorWebhookURL string
	ContentWebhookURL    string
	RelayTimeout         time.Duration

	// Polling
	ListRefreshInterval   time.Duration // htmx every-N refresh of list fragments
	PostWatchInterval     time.Duration // bounded watch after a content submit
	PostWatchMaxRuns      int
	CommentTablesInterval time.Duration // comment-tables job period

	ContentSubmitMode string // optimistic | await
	TimeZone          string // IANA zone for post dates

	// Google OAuth (sign-in button hidden when either is empty)
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string

	// Seeding
	SeedAdminEmail    string
	SeedAdminName     string
	SeedAdminPassword string // empty seeds a Google sign-in account
	SeedDemoData      bool
}
