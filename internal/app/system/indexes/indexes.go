// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collections owned by the login gate.
const (
	CollOAuthStates   = "oauth_states"
	CollLoginAttempts = "login_attempts"
)

// loginAttemptTTL is how long an idle rate-limit record survives.
const loginAttemptTTL = 24 * time.Hour

/*
EnsureAll is called at startup and by the test database helper. Every
collection set is idempotent; failures are gathered so one bad index does
not hide the others.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{models.CollCompetitors, competitorIndexes()},
		{models.CollCompetitorPosts, competitorPostIndexes()},
		{models.CollPosts, postIndexes()},
		{models.CollLeads, leadIndexes()},
		{models.CollPreferences, preferenceIndexes()},
		{models.CollUsers, userIndexes()},
		{CollOAuthStates, oauthStateIndexes()},
		{CollLoginAttempts, loginAttemptIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.models); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconciling one collection                                                 */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolValue(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Listing fails on a collection that does not exist yet.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// ensureIndexSet creates each desired index unless one with the same keys
// and uniqueness already exists. An existing index with the same keys but
// different uniqueness is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing := listExisting(ctx, coll)
	var errs []string

	for _, m := range want {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolValue(unique) == boolValue(ex.Unique) {
				zap.L().Debug("index present",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
			zap.L().Info("dropped index to change uniqueness",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && boolValue(unique) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolValue(unique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection index sets                                                      */
/* -------------------------------------------------------------------------- */

func competitorIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_competitors_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_competitors_status"),
		},
	}
}

func competitorPostIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Standalone posts page: one competitor, newest post first
		{
			Keys:    bson.D{{Key: "competitor_id", Value: 1}, {Key: "post_date", Value: -1}},
			Options: options.Index().SetName("idx_cposts_competitor_postdate"),
		},
		// Engagement window and content watch
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_cposts_created"),
		},
	}
}

func postIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_status_created"),
		},
		{
			Keys:    bson.D{{Key: "table_exist", Value: 1}},
			Options: options.Index().SetName("idx_posts_table_exist"),
		},
	}
}

func leadIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_leads_date_desc"),
		},
	}
}

func preferenceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_prefs_user_name"),
		},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "login_id_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_login_id_ci"),
		},
	}
}

func oauthStateIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_oauth_state"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_state_expires_ttl"),
		},
	}
}

func loginAttemptIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "last_attempt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(loginAttemptTTL.Seconds())).SetName("idx_login_attempts_ttl"),
		},
	}
}
