// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostComment is one comment on a lead-magnet post. Comments live in a
// per-post collection that is only read through the count procedure.
type PostComment struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LinkedInID            string             `bson:"linkedin_id" json:"linkedin_id"`
	LinkedInURL           string             `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	LinkedInTitle         string             `bson:"linkedin_title,omitempty" json:"linkedin_title,omitempty"`
	PersonName            string             `bson:"person_name" json:"person_name"`
	CommentDate           *time.Time         `bson:"comment_date,omitempty" json:"comment_date,omitempty"`
	ConnectionRequestSent bool               `bson:"connection_request_sent" json:"connection_request_sent"`
	DMReceived            bool               `bson:"dm_received" json:"dm_received"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
}
