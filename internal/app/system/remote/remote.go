// internal/app/system/remote/remote.go
package remote

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Accessor issues filtered reads, writes and procedure calls against named
// collections of one database. Typed reads go through the package-level
// generic helpers (List, Get, Insert, Update).
type Accessor struct {
	db *mongo.Database

	mu    sync.RWMutex
	procs map[string]Procedure
}

// New creates an Accessor with the built-in procedures registered.
func New(db *mongo.Database) *Accessor {
	a := &Accessor{
		db:    db,
		procs: make(map[string]Procedure),
	}
	a.Register(ProcCountCommentsByStatus, countCommentsByStatus)
	a.Register(ProcCreatePostCommentsTable, createPostCommentsTable)
	return a
}

// Database returns the underlying database.
func (a *Accessor) Database() *mongo.Database { return a.db }

func findOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

// List returns the rows of collection matching q, decoded into T.
// An empty result is an empty slice, never an error.
func List[T any](ctx context.Context, a *Accessor, collection string, q Query) ([]T, error) {
	cur, err := a.db.Collection(collection).Find(ctx, toBSON(q.Filters), findOptions(q))
	if err != nil {
		return nil, wrap("list", collection, err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap("list", collection, err)
	}
	return out, nil
}

// Get loads one row by id.
func Get[T any](ctx context.Context, a *Accessor, collection string, id any) (T, error) {
	var row T
	err := a.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return row, wrap("get", collection, ErrNotFound)
	}
	return row, wrap("get", collection, err)
}

// Insert writes fields as a new row and returns the stored row.
// fields must carry its own _id when the collection uses numeric or
// external ids; see NextID.
func Insert[T any](ctx context.Context, a *Accessor, collection string, fields any) (T, error) {
	var row T
	res, err := a.db.Collection(collection).InsertOne(ctx, fields)
	if err != nil {
		return row, wrap("insert", collection, err)
	}
	if err := a.db.Collection(collection).FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&row); err != nil {
		return row, wrap("insert", collection, err)
	}
	return row, nil
}

// Update applies fields ($set) to row id and returns the updated row.
func Update[T any](ctx context.Context, a *Accessor, collection string, id any, fields bson.M) (T, error) {
	var row T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := a.db.Collection(collection).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return row, wrap("update", collection, ErrNotFound)
	}
	return row, wrap("update", collection, err)
}

// Delete removes row id.
func (a *Accessor) Delete(ctx context.Context, collection string, id any) error {
	res, err := a.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete", collection, err)
	}
	if res.DeletedCount == 0 {
		return wrap("delete", collection, ErrNotFound)
	}
	return nil
}

// DeleteWhere removes every matching row and returns how many went.
func (a *Accessor) DeleteWhere(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	res, err := a.db.Collection(collection).DeleteMany(ctx, toBSON(filters))
	if err != nil {
		return 0, wrap("delete", collection, err)
	}
	return res.DeletedCount, nil
}

// CountWhere counts matching rows server-side without transferring them.
func (a *Accessor) CountWhere(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	n, err := a.db.Collection(collection).CountDocuments(ctx, toBSON(filters))
	if err != nil {
		return 0, wrap("count", collection, err)
	}
	return n, nil
}

// NextID allocates the next numeric id for collection from the counters
// collection.
func (a *Accessor) NextID(ctx context.Context, collection string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := a.db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, wrap("next_id", collection, err)
	}
	return doc.Seq, nil
}

// CollectionExists reports whether a collection has been created.
func (a *Accessor) CollectionExists(ctx context.Context, name string) (bool, error) {
	names, err := a.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, wrap("list_collections", name, err)
	}
	return len(names) > 0, nil
}
