// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt counts failed sign-ins for one key ("login:<email>" or
// "ip:<addr>"). Stale records are removed by a TTL index on last_attempt.
type Attempt struct {
	Key          string     `bson:"_id"`
	AttemptCount int        `bson:"attempt_count"`
	WindowStart  time.Time  `bson:"window_start"`
	LockedUntil  *time.Time `bson:"locked_until"`
	LastAttempt  time.Time  `bson:"last_attempt"`
}

// Store enforces at most maxAttempts failures per window; reaching the
// limit locks the key for the lockout duration. Store failures fail open.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

// New creates a rate limit store.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:               db.Collection("login_attempts"),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

// LoginKey is the key for an email.
func LoginKey(loginID string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(loginID))
}

// IPKey is the key for a client address.
func IPKey(ip string) string { return "ip:" + ip }

func (s *Store) load(ctx context.Context, key string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"_id": key}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CheckAllowed reports whether a sign-in for key may proceed. remaining is
// -1 while locked.
func (s *Store) CheckAllowed(ctx context.Context, key string) (allowed bool, remaining int, lockedUntil *time.Time) {
	a, err := s.load(ctx, key)
	if err != nil || a == nil {
		return true, s.maxAttempts, nil
	}

	now := s.now()
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return false, -1, a.LockedUntil
	}
	if now.After(a.WindowStart.Add(s.windowDuration)) {
		return true, s.maxAttempts, nil
	}
	remaining = s.maxAttempts - a.AttemptCount
	if remaining <= 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

// RecordFailure counts a failed attempt and reports whether it locked
// the key.
func (s *Store) RecordFailure(ctx context.Context, key string) (lockedOut bool, lockedUntil *time.Time) {
	now := s.now()
	a, err := s.load(ctx, key)
	if err != nil {
		return false, nil
	}
	if a == nil || now.After(a.WindowStart.Add(s.windowDuration)) {
		a = &Attempt{Key: key, WindowStart: now}
	}
	a.AttemptCount++
	a.LastAttempt = now
	a.LockedUntil = nil
	if a.AttemptCount >= s.maxAttempts {
		until := now.Add(s.lockoutDuration)
		a.LockedUntil = &until
		lockedOut, lockedUntil = true, &until
	}

	_, _ = s.c.ReplaceOne(ctx, bson.M{"_id": key}, a, options.Replace().SetUpsert(true))
	return lockedOut, lockedUntil
}

// ClearOnSuccess forgets the failures of key.
func (s *Store) ClearOnSuccess(ctx context.Context, key string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
