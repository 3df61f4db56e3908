// internal/domain/models/competitor.go
package models

import (
	"strconv"
	"time"
)

// CompetitorStatus is the monitoring state of a tracked profile.
type CompetitorStatus string

const (
	CompetitorActive     CompetitorStatus = "active"
	CompetitorMonitoring CompetitorStatus = "monitoring"
	CompetitorPaused     CompetitorStatus = "paused"
	CompetitorInactive   CompetitorStatus = "inactive"
)

// AllCompetitorStatuses lists statuses in display order.
func AllCompetitorStatuses() []CompetitorStatus {
	return []CompetitorStatus{CompetitorActive, CompetitorMonitoring, CompetitorPaused, CompetitorInactive}
}

// IsValidCompetitorStatus checks a raw status value.
func IsValidCompetitorStatus(s string) bool {
	for _, v := range AllCompetitorStatuses() {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Label returns the French display label.
func (s CompetitorStatus) Label() string {
	switch s {
	case CompetitorActive:
		return "Actif"
	case CompetitorMonitoring:
		return "Surveillance"
	case CompetitorPaused:
		return "En pause"
	case CompetitorInactive:
		return "Inactif"
	}
	return string(s)
}

// Competitor is a tracked external LinkedIn profile. Rows are written by
// the ingestion workflow; the dashboard deletes them and edits status/notes.
type Competitor struct {
	ID              int64            `bson:"_id" json:"id"`
	Name            string           `bson:"name" json:"name"`
	Headline        string           `bson:"headline,omitempty" json:"headline,omitempty"`
	Company         string           `bson:"company,omitempty" json:"company,omitempty"`
	URL             string           `bson:"url" json:"url"`
	FollowerCount   *int64           `bson:"follower_count,omitempty" json:"follower_count,omitempty"`
	ConnectionCount *int64           `bson:"connection_count,omitempty" json:"connection_count,omitempty"`
	Industry        string           `bson:"industry,omitempty" json:"industry,omitempty"`
	Location        string           `bson:"location,omitempty" json:"location,omitempty"`
	Status          CompetitorStatus `bson:"status" json:"status"`
	PhotoURL        string           `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Notes           string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"created_at"`
}

// Key returns the row id as a string for list view-models.
func (c Competitor) Key() string { return strconv.FormatInt(c.ID, 10) }

// Initials returns up to two initials for avatar placeholders.
func (c Competitor) Initials() string {
	var out []rune
	start := true
	for _, r := range c.Name {
		if r == ' ' || r == '-' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			start = false
			if len(out) == 2 {
				break
			}
		}
	}
	return string(out)
}
