// internal/domain/models/competitorpost.go
package models

import (
	"strconv"
	"time"
)

// CompetitorPost is a public post scraped from a competitor's profile.
// Counts are nullable: the scraper leaves them unset when unavailable.
type CompetitorPost struct {
	ID               int64      `bson:"_id" json:"id"`
	CompetitorID     int64      `bson:"competitor_id" json:"competitor_id"`
	Caption          string     `bson:"caption" json:"caption"`
	MediaURLs        []string   `bson:"media_urls,omitempty" json:"media_urls,omitempty"`
	Keywords         []string   `bson:"keywords,omitempty" json:"keywords,omitempty"`
	Hashtags         []string   `bson:"hashtags,omitempty" json:"hashtags,omitempty"`
	Likes            *int64     `bson:"likes" json:"likes"`
	Comments         *int64     `bson:"comments" json:"comments"`
	Shares           *int64     `bson:"shares" json:"shares"`
	EngagementRate   *float64   `bson:"engagement_rate,omitempty" json:"engagement_rate,omitempty"`
	Sentiment        string     `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	ContentType      string     `bson:"content_type,omitempty" json:"content_type,omitempty"`
	PostURL          string     `bson:"post_url,omitempty" json:"post_url,omitempty"`
	PostDate         *time.Time `bson:"post_date,omitempty" json:"post_date,omitempty"`
	PerformanceScore *float64   `bson:"performance_score,omitempty" json:"performance_score,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

// Key returns the row id as a string for list view-models.
func (p CompetitorPost) Key() string { return strconv.FormatInt(p.ID, 10) }

// Interactions is likes + comments + shares, treating null as zero.
func (p CompetitorPost) Interactions() int64 {
	return deref(p.Likes) + deref(p.Comments) + deref(p.Shares)
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
