// internal/app/system/txn/txn.go

// Package txn runs multi-collection writes in a MongoDB transaction when
// the deployment supports one. A standalone server has no transactions;
// there the writes run in order on the plain context.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func holds the writes. ctx is a session context inside a transaction.
type Func func(ctx context.Context) error

// Run executes fn in a transaction on db's client, falling back to a
// direct call when sessions or transactions are unavailable. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		warn(log, "no session, writing without transaction", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, "transactions unsupported, writing without transaction", err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Warn(msg, zap.Error(err))
	}
}

// IsNotSupported reports whether err means the server cannot run a
// transaction: code 20 (not a replica set member), 51 (illegal operation)
// or 263 (operation not allowed in a transaction). Drivers and
// DocumentDB word this differently, so two matching keywords in the
// message also count.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
