// internal/app/store/oauthstate/oauthstatestore.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TTL is how long a Google sign-in may take between redirect and callback.
const TTL = 10 * time.Minute

// State is a single-use OAuth state token. ReturnTo is the local path the
// user asked for before being sent to sign in.
type State struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ReturnTo  string             `bson:"return_to,omitempty"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the oauth_states collection. The unique and
// TTL indexes are created by indexes.EnsureAll.
type Store struct {
	c *mongo.Collection
}

// New creates an OAuth state store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Create stores a state token.
func (s *Store) Create(ctx context.Context, state, returnTo string) error {
	now := time.Now()
	_, err := s.c.InsertOne(ctx, State{
		ID:        primitive.NewObjectID(),
		State:     state,
		ReturnTo:  returnTo,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	})
	return err
}

// Consume deletes the token and returns its return path. ok is false for
// unknown, expired or already used tokens.
func (s *Store) Consume(ctx context.Context, state string) (returnTo string, ok bool, err error) {
	var doc State
	err = s.c.FindOneAndDelete(ctx, bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.ReturnTo, true, nil
}
