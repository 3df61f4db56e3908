// internal/app/store/preferences/prefstore.go
package prefstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Preference names.
const (
	NameObjectives = "objectives"
	NameSidebar    = "sidebar"
)

// ErrMissing is returned by a Backend when nothing is stored.
var ErrMissing = errors.New("prefstore: no stored value")

// Backend stores one opaque JSON blob per user and name.
type Backend interface {
	Load(ctx context.Context, userID, name string) ([]byte, error)
	Save(ctx context.Context, userID, name string, blob []byte) error
}

/*─────────────────────────────────────────────────────────────────────────────*
| Mongo backend                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type mongoDoc struct {
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend keeps blobs in the preferences collection.
type MongoBackend struct {
	c *mongo.Collection
}

// NewMongoBackend creates a backend over db.
func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{c: db.Collection(models.CollPreferences)}
}

func (b *MongoBackend) Load(ctx context.Context, userID, name string) ([]byte, error) {
	var doc mongoDoc
	err := b.c.FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Data), nil
}

func (b *MongoBackend) Save(ctx context.Context, userID, name string, blob []byte) error {
	_, err := b.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "name": name},
		bson.M{"$set": bson.M{"data": string(blob), "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	return err
}

/*─────────────────────────────────────────────────────────────────────────────*
| Redis backend                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// RedisBackend keeps blobs under strataleads:prefs:<user>:<name>.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend creates a backend over rdb.
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// Key returns the Redis key of a preference.
func Key(userID, name string) string {
	return "strataleads:prefs:" + userID + ":" + name
}

func (b *RedisBackend) Load(ctx context.Context, userID, name string) ([]byte, error) {
	v, err := b.rdb.Get(ctx, Key(userID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMissing
	}
	return v, err
}

func (b *RedisBackend) Save(ctx context.Context, userID, name string, blob []byte) error {
	return b.rdb.Set(ctx, Key(userID, name), blob, 0).Err()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Store                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Store reads and writes typed preferences. Reads never fail: a missing,
// unreadable or invalid blob yields the defaults, and anything other than
// "missing" is logged.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a preferences store.
func New(backend Backend, logger *zap.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

func (s *Store) load(ctx context.Context, userID, name string, into any) bool {
	blob, err := s.backend.Load(ctx, userID, name)
	if errors.Is(err, ErrMissing) {
		return false
	}
	if err != nil {
		s.logger.Warn("preference read failed, using defaults",
			zap.String("user_id", userID), zap.String("name", name), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(blob, into); err != nil {
		s.logger.Warn("stored preference unreadable, using defaults",
			zap.String("user_id", userID), zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, userID, name string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, userID, name, blob)
}

// Objectives returns the user's targets or the defaults.
func (s *Store) Objectives(ctx context.Context, userID string) models.Objectives {
	var o models.Objectives
	if !s.load(ctx, userID, NameObjectives, &o) {
		return models.DefaultObjectives()
	}
	if !o.Valid() {
		s.logger.Warn("stored objectives invalid, using defaults",
			zap.String("user_id", userID), zap.Any("objectives", o))
		return models.DefaultObjectives()
	}
	return o
}

// SaveObjectives stores the user's targets.
func (s *Store) SaveObjectives(ctx context.Context, userID string, o models.Objectives) error {
	if !o.Valid() {
		return errors.New("prefstore: objectives must be positive")
	}
	return s.save(ctx, userID, NameObjectives, o)
}

// Sidebar returns the user's section state merged over the defaults.
// Unknown section names are dropped.
func (s *Store) Sidebar(ctx context.Context, userID string) models.SidebarState {
	state := models.DefaultSidebarState()
	var stored models.SidebarState
	if !s.load(ctx, userID, NameSidebar, &stored) {
		return state
	}
	for k, v := range stored {
		if models.IsSidebarSection(k) {
			state[k] = v
		}
	}
	return state
}

// SetSection stores one section's expanded flag.
func (s *Store) SetSection(ctx context.Context, userID, section string, expanded bool) (models.SidebarState, error) {
	if !models.IsSidebarSection(section) {
		return nil, errors.New("prefstore: unknown sidebar section")
	}
	state := s.Sidebar(ctx, userID)
	state[section] = expanded
	return state, s.save(ctx, userID, NameSidebar, state)
}
