// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the domain collections when missing and attaches
// JSON-Schema validators to them. Deployments without collMod support
// (some DocumentDB versions) skip the validator with an info log.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(models.CollCompetitors, competitorsSchema())
	ensure(models.CollCompetitorPosts, competitorPostsSchema())
	ensure(models.CollPosts, postsSchema())
	ensure(models.CollLeads, leadsSchema())
	ensure(models.CollUsers, usersSchema())
	ensure(models.CollPreferences, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection creates name when missing and reports whether it did.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, err := collectionExists(ctx, db, name); err == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enumOf[T ~string](values []T) bson.A {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

var (
	intType         = bson.A{"int", "long"}
	nullableInt     = bson.A{"int", "long", "null"}
	nullableString  = bson.A{"string", "null"}
	nullableDate    = bson.A{"date", "null"}
	nullableNumeric = bson.A{"int", "long", "double", "decimal", "null"}
)

func schema(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func competitorsSchema() bson.M {
	return schema(bson.A{"_id", "status"}, bson.M{
		"_id":              bson.M{"bsonType": intType},
		"name":             bson.M{"bsonType": nullableString},
		"url":              bson.M{"bsonType": nullableString},
		"status":           bson.M{"enum": enumOf(models.AllCompetitorStatuses())},
		"follower_count":   bson.M{"bsonType": nullableInt},
		"connection_count": bson.M{"bsonType": nullableInt},
	})
}

func competitorPostsSchema() bson.M {
	return schema(bson.A{"_id", "competitor_id"}, bson.M{
		"_id":               bson.M{"bsonType": intType},
		"competitor_id":     bson.M{"bsonType": intType},
		"likes":             bson.M{"bsonType": nullableInt},
		"comments":          bson.M{"bsonType": nullableInt},
		"shares":            bson.M{"bsonType": nullableInt},
		"engagement_rate":   bson.M{"bsonType": nullableNumeric},
		"performance_score": bson.M{"bsonType": nullableNumeric},
		"post_date":         bson.M{"bsonType": nullableDate},
	})
}

// postsSchema pins status to one of the three lifecycle values.
func postsSchema() bson.M {
	return schema(bson.A{"_id", "status"}, bson.M{
		"_id":           bson.M{"bsonType": intType},
		"status":        bson.M{"enum": enumOf(models.AllPostStatuses())},
		"type":          bson.M{"enum": bson.A{"", string(models.PostTypeFull), string(models.PostTypeIdea)}},
		"table_exist":   bson.M{"bsonType": "bool"},
		"scheduled_for": bson.M{"bsonType": nullableDate},
	})
}

func leadsSchema() bson.M {
	return schema(bson.A{"_id"}, bson.M{
		"_id":  bson.M{"bsonType": "string", "minLength": 1},
		"date": bson.M{"bsonType": nullableDate},
	})
}

func usersSchema() bson.M {
	return schema(bson.A{"login_id", "status", "auth_method"}, bson.M{
		"full_name":   bson.M{"bsonType": "string"},
		"login_id":    bson.M{"bsonType": "string", "minLength": 1},
		"login_id_ci": bson.M{"bsonType": "string", "minLength": 1},
		"status":      bson.M{"enum": bson.A{models.UserActive, models.UserDisabled}},
		"auth_method": bson.M{"enum": bson.A{models.AuthPassword, models.AuthGoogle}},
	})
}
