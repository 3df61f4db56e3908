// internal/domain/models/lead.go
package models

import "time"

// Lead is a person who engaged with our content. The id is the LinkedIn
// profile id; rows are written by the ingestion process.
type Lead struct {
	LinkedInID       string     `bson:"_id" json:"linkedin_id"`
	Name             string     `bson:"name" json:"name"`
	Headline         string     `bson:"headline,omitempty" json:"headline,omitempty"`
	Company          string     `bson:"company,omitempty" json:"company,omitempty"`
	ConnectionStatus string     `bson:"connection_status,omitempty" json:"connection_status,omitempty"`
	DMStatus         string     `bson:"dm_status,omitempty" json:"dm_status,omitempty"`
	URL              string     `bson:"url,omitempty" json:"url,omitempty"`
	Date             *time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

// Key returns the row id for list view-models.
func (l Lead) Key() string { return l.LinkedInID }
