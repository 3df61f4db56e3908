// internal/domain/models/post.go
package models

import (
	"strconv"
	"time"
)

// PostStatus is the lifecycle state of one of our own posts.
// A post has exactly one status.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
)

// AllPostStatuses lists statuses in display order.
func AllPostStatuses() []PostStatus {
	return []PostStatus{PostDraft, PostScheduled, PostPublished}
}

// ParsePostStatus validates a raw status value.
func ParsePostStatus(s string) (PostStatus, bool) {
	for _, v := range AllPostStatuses() {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether a post in status s may move to next.
// Drafts may be scheduled or published, scheduled posts may be published
// or sent back to draft, published posts are final.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	switch s {
	case PostDraft:
		return next == PostScheduled || next == PostPublished
	case PostScheduled:
		return next == PostPublished || next == PostDraft
	}
	return false
}

// Label returns the French display label.
func (s PostStatus) Label() string {
	switch s {
	case PostDraft:
		return "Brouillon"
	case PostScheduled:
		return "Programmé"
	case PostPublished:
		return "Publié"
	}
	return string(s)
}

// PostType distinguishes a full post from an idea the workflow expands.
type PostType string

const (
	PostTypeFull PostType = "full"
	PostTypeIdea PostType = "idea"
)

// Image options for a new post.
const (
	ImageNone   = "none"
	ImageUpload = "upload"
	ImageAI     = "ai"
)

// Post is one of our own LinkedIn posts.
type Post struct {
	ID                int64      `bson:"_id" json:"id"`
	Content           string     `bson:"content" json:"content"`
	Caption           string     `bson:"caption,omitempty" json:"caption,omitempty"`
	MediaURL          string     `bson:"media_url,omitempty" json:"media_url,omitempty"`
	Type              PostType   `bson:"type" json:"type"`
	ImageOption       string     `bson:"image_option,omitempty" json:"image_option,omitempty"`
	CTAKeyword        string     `bson:"cta_keyword,omitempty" json:"cta_keyword,omitempty"`
	IsLeadMagnet      bool       `bson:"is_lead_magnet" json:"is_lead_magnet"`
	Status            PostStatus `bson:"status" json:"status"`
	ScheduledFor      *time.Time `bson:"scheduled_for,omitempty" json:"scheduled_for,omitempty"`
	PostURL           string     `bson:"post_url,omitempty" json:"post_url,omitempty"`
	URNPostID         string     `bson:"urn_post_id,omitempty" json:"urn_post_id,omitempty"`
	LeadMagnetURL     string     `bson:"lead_magnet_url,omitempty" json:"lead_magnet_url,omitempty"`
	CommentsTableName string     `bson:"comments_table_name,omitempty" json:"-"`
	TableExist        bool       `bson:"table_exist" json:"table_exist"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}

// Key returns the row id as a string for list view-models.
func (p Post) Key() string { return strconv.FormatInt(p.ID, 10) }

// Title is the caption when set, else the start of the content.
func (p Post) Title() string {
	if p.Caption != "" {
		return p.Caption
	}
	r := []rune(p.Content)
	if len(r) > 80 {
		return string(r[:80]) + "…"
	}
	return p.Content
}
