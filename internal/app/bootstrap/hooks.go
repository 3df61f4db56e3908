// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires StrataLeads into the WAFFLE lifecycle. app.Run calls them in
// order from configuration loading to graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "strataleads",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,    // MongoDB, Redis, storage, webhook client
	EnsureSchema:   EnsureSchema, // validators and indexes
	Startup:        Startup,      // templates, seeding, task runner
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
