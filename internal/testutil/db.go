// Package testutil holds the shared test fixtures: a per-test MongoDB
// database, signed-in requests with CSRF tokens, and booted templates.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dalemusser/strataleads/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultTestDBURI is used when STRATALEADS_TEST_MONGO_URI is unset.
	DefaultTestDBURI = "mongodb://localhost:27017"
	// TestDBName prefixes every per-test database.
	TestDBName = "strataleads_test"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// sharedClient connects once per test binary.
func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		uri := os.Getenv("STRATALEADS_TEST_MONGO_URI")
		if uri == "" {
			uri = DefaultTestDBURI
		}
		client, clientErr = mongo.Connect(ctx, options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(50).
			SetConnectTimeout(5*time.Second).
			SetServerSelectionTimeout(5*time.Second))
		if clientErr == nil {
			clientErr = client.Ping(ctx, nil)
		}
	})
	return client, clientErr
}

// SetupTestDB returns an empty database with the production indexes,
// dropped again when the test ends. Without a reachable MongoDB the test
// is skipped, so pure packages still run anywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Skipf("MongoDB unavailable, skipping: %v", err)
	}
	db := c.Database(dbName(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database on cleanup: %v", err)
		}
	})
	return db
}

// dbName derives a database name unique to the package and test.
// Packages run in parallel and share test names such as TestRows_Empty,
// so the package directory is part of the hash. MongoDB caps names at 63
// bytes.
func dbName(testName string) string {
	dir, _ := os.Getwd()
	sum := xxhash.Sum64String(dir + "\x00" + testName)

	readable := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, testName)
	const room = 63 - len(TestDBName) - 1 - 16 - 1
	if len(readable) > room {
		readable = readable[:room]
	}
	return fmt.Sprintf("%s_%016x_%s", TestDBName, sum, readable)
}

// TestContext returns a context for fixture setup.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
