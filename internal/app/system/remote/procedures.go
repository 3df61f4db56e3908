// internal/app/system/remote/procedures.go
package remote

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Procedure names.
const (
	ProcCountCommentsByStatus   = "count_comments_by_status"
	ProcCreatePostCommentsTable = "create_post_comments_table"
)

// Procedure is a server-side routine invoked by name.
// Soft failures are reported inside the result under "error", with a nil
// Go error; a non-nil Go error means the call itself failed.
type Procedure func(ctx context.Context, a *Accessor, args map[string]any) (ProcedureResult, error)

// ProcedureResult is the small JSON-like object a procedure returns.
type ProcedureResult map[string]any

// Err returns the soft failure carried by the result, if any.
func (r ProcedureResult) Err() error {
	if msg, ok := r["error"].(string); ok && msg != "" {
		return errors.New(msg)
	}
	if ok, present := r["success"].(bool); present && !ok {
		return errors.New("procedure reported failure")
	}
	return nil
}

// Int reads an integer field regardless of the numeric type it was
// decoded as.
func (r ProcedureResult) Int(key string) int64 {
	switch v := r[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// String reads a string field.
func (r ProcedureResult) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Register adds or replaces a named procedure.
func (a *Accessor) Register(name string, p Procedure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.procs[name] = p
}

// InvokeAggregation runs the named procedure. Callers must check both the
// returned error and result.Err().
func (a *Accessor) InvokeAggregation(ctx context.Context, name string, args map[string]any) (ProcedureResult, error) {
	a.mu.RLock()
	p, ok := a.procs[name]
	a.mu.RUnlock()
	if !ok {
		return nil, wrap("invoke", name, fmt.Errorf("unknown procedure"))
	}
	res, err := p(ctx, a, args)
	if err != nil {
		return nil, wrap("invoke", name, err)
	}
	return res, nil
}

var commentsTableRe = regexp.MustCompile(`^post_comments_\d+$`)

// commentsTableName is the only place a comment collection name is built.
func commentsTableName(postID int64) string {
	return fmt.Sprintf("post_comments_%d", postID)
}

func countCommentsByStatus(ctx context.Context, a *Accessor, args map[string]any) (ProcedureResult, error) {
	name, _ := args["table_name"].(string)
	if !commentsTableRe.MatchString(name) {
		return ProcedureResult{"error": fmt.Sprintf("invalid table name %q", name)}, nil
	}
	exists, err := a.CollectionExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return ProcedureResult{"error": fmt.Sprintf("relation %q does not exist", name)}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "received_dm", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$dm_received", true}}}, 1, 0}},
			}}}},
			{Key: "connection_request", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$connection_request_sent", true}}}, 1, 0}},
			}}}},
		}}},
	}
	cur, err := a.db.Collection(name).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total             int64 `bson:"total"`
		ReceivedDM        int64 `bson:"received_dm"`
		ConnectionRequest int64 `bson:"connection_request"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	var total, dm, conn int64
	if len(rows) > 0 {
		total, dm, conn = rows[0].Total, rows[0].ReceivedDM, rows[0].ConnectionRequest
	}
	return ProcedureResult{
		"total":                  total,
		"received_dm":            dm,
		"connection_request":     conn,
		"not_received_dm":        total - dm,
		"not_connection_request": total - conn,
	}, nil
}

func createPostCommentsTable(ctx context.Context, a *Accessor, args map[string]any) (ProcedureResult, error) {
	postID, ok := toInt64(args["post_id"])
	if !ok || postID <= 0 {
		return ProcedureResult{"success": false, "error": "post_id is required"}, nil
	}

	posts := a.db.Collection("posts")
	var post struct {
		TableExist        bool   `bson:"table_exist"`
		CommentsTableName string `bson:"comments_table_name"`
	}
	err := posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ProcedureResult{"success": false, "error": fmt.Sprintf("post %d not found", postID)}, nil
	}
	if err != nil {
		return nil, err
	}
	if post.TableExist && post.CommentsTableName != "" {
		return ProcedureResult{"success": true, "table_name": post.CommentsTableName}, nil
	}

	name := commentsTableName(postID)
	if err := a.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
		return ProcedureResult{"success": false, "error": err.Error()}, nil
	}
	_, err = a.db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "linkedin_id", Value: 1}},
			Options: options.Index().SetName("idx_comment_linkedin_id"),
		},
		{
			Keys:    bson.D{{Key: "comment_date", Value: -1}},
			Options: options.Index().SetName("idx_comment_date_desc"),
		},
	})
	if err != nil {
		return nil, err
	}

	_, err = posts.UpdateByID(ctx, postID, bson.M{"$set": bson.M{
		"table_exist":         true,
		"comments_table_name": name,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return nil, err
	}
	return ProcedureResult{"success": true, "table_name": name}, nil
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 48
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
