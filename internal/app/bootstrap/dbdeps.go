// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends built in ConnectDB and handed to the later
// lifecycle hooks. Shutdown closes them.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Accessor is the typed read/write and procedure layer over MongoDatabase.
	Accessor *remote.Accessor

	// Redis is nil when redis_url is empty.
	Redis *redis.Client

	// Preferences is backed by Redis when configured, else MongoDB.
	Preferences *prefstore.Store

	// Automation relays payloads to the external workflow webhooks.
	Automation *automation.Client

	// FileStorage receives post images.
	FileStorage storage.Store
}
