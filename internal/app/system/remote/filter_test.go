package remote

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToBSON_MergesConditionsOnSameField(t *testing.T) {
	got := toBSON([]Filter{
		Gte("created_at", 10),
		Lt("created_at", 20),
		Eq("status", "published"),
	})

	created, ok := got["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at = %T, want bson.M", got["created_at"])
	}
	if created["$gte"] != 10 || created["$lt"] != 20 {
		t.Errorf("created_at = %v, want $gte 10 and $lt 20", created)
	}
	status, _ := got["status"].(bson.M)
	if status["$eq"] != "published" {
		t.Errorf("status = %v, want $eq published", status)
	}
}

func TestToBSON_NotNullAndContains(t *testing.T) {
	got := toBSON([]Filter{NotNull("likes"), Contains("name", "a.b")})

	likes, _ := got["likes"].(bson.M)
	if v, ok := likes["$ne"]; !ok || v != nil {
		t.Errorf("likes = %v, want $ne nil", likes)
	}
	name, _ := got["name"].(bson.M)
	re, ok := name["$regex"].(primitive.Regex)
	if !ok {
		t.Fatalf("name $regex = %T, want primitive.Regex", name["$regex"])
	}
	if re.Pattern != `a\.b` || re.Options != "i" {
		t.Errorf("regex = %+v, want quoted pattern with i option", re)
	}
}

func TestToBSON_Empty(t *testing.T) {
	if got := toBSON(nil); len(got) != 0 {
		t.Errorf("toBSON(nil) = %v, want empty", got)
	}
}

func TestProcedureResult(t *testing.T) {
	r := ProcedureResult{"total": int32(4), "received_dm": int64(2), "ratio": 1.0, "table_name": "post_comments_3"}
	if r.Int("total") != 4 || r.Int("received_dm") != 2 || r.Int("ratio") != 1 || r.Int("missing") != 0 {
		t.Errorf("Int() conversions wrong: %v", r)
	}
	if r.String("table_name") != "post_comments_3" {
		t.Errorf("String(table_name) = %q", r.String("table_name"))
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}

	if err := (ProcedureResult{"error": "boom"}).Err(); err == nil || err.Error() != "boom" {
		t.Errorf("Err() = %v, want boom", err)
	}
	if err := (ProcedureResult{"success": false}).Err(); err == nil {
		t.Error("Err() = nil for success=false, want error")
	}
}

func TestCommentsTableName(t *testing.T) {
	name := commentsTableName(42)
	if name != "post_comments_42" {
		t.Errorf("commentsTableName(42) = %q", name)
	}
	if !commentsTableRe.MatchString(name) {
		t.Errorf("%q does not match the comment table pattern", name)
	}
	if commentsTableRe.MatchString("users") {
		t.Error("users must not be accepted as a comment table")
	}
}
