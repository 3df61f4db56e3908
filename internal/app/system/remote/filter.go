// internal/app/system/remote/filter.go
package remote

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op is a filter operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpIn       Op = "in"
	OpNotNull  Op = "not_null"
	OpContains Op = "contains" // case-insensitive substring
)

// Filter is one condition on a column.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, v any) Filter { return Filter{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Filter { return Filter{Field: field, Op: OpNe, Value: v} }
func Gte(field string, v any) Filter { return Filter{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v any) Filter { return Filter{Field: field, Op: OpLt, Value: v} }
func In(field string, v any) Filter { return Filter{Field: field, Op: OpIn, Value: v} }
func NotNull(field string) Filter { return Filter{Field: field, Op: OpNotNull} }
func Contains(field, s string) Filter { return Filter{Field: field, Op: OpContains, Value: s} }

// Query describes a read: filters are ANDed, OrderBy sorts by one column.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int64
}

// toBSON merges filters into a single Mongo filter document. Several
// conditions on the same field are combined under that field; a repeated
// operator keeps the last value.
func toBSON(filters []Filter) bson.M {
	out := bson.M{}
	for _, f := range filters {
		var cond bson.M
		switch f.Op {
		case OpEq:
			cond = bson.M{"$eq": f.Value}
		case OpNe:
			cond = bson.M{"$ne": f.Value}
		case OpGte:
			cond = bson.M{"$gte": f.Value}
		case OpLt:
			cond = bson.M{"$lt": f.Value}
		case OpIn:
			cond = bson.M{"$in": f.Value}
		case OpNotNull:
			cond = bson.M{"$ne": nil}
		case OpContains:
			s, _ := f.Value.(string)
			cond = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}
		default:
			continue
		}

		existing, ok := out[f.Field].(bson.M)
		if !ok {
			out[f.Field] = cond
			continue
		}
		for k, v := range cond {
			existing[k] = v
		}
	}
	return out
}
