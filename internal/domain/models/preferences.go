// internal/domain/models/preferences.go
package models

// Objectives are the monthly targets shown as goal progress.
type Objectives struct {
	PostsPerMonth      int `bson:"posts_per_month" json:"posts_per_month"`
	LeadsPerMonth      int `bson:"leads_per_month" json:"leads_per_month"`
	CompetitorsToTrack int `bson:"competitors_to_track" json:"competitors_to_track"`
}

// DefaultObjectives are used when none are stored or the stored blob is
// unreadable.
func DefaultObjectives() Objectives {
	return Objectives{PostsPerMonth: 25, LeadsPerMonth: 50, CompetitorsToTrack: 10}
}

// Valid reports whether every target is positive.
func (o Objectives) Valid() bool {
	return o.PostsPerMonth > 0 && o.LeadsPerMonth > 0 && o.CompetitorsToTrack > 0
}

// SidebarState maps a navigation section to its expanded flag.
type SidebarState map[string]bool

// Sidebar sections.
const (
	SectionPilotage = "pilotage"
	SectionContenu  = "contenu"
	SectionVeille   = "veille"
	SectionLeads    = "leads"
)

// DefaultSidebarState has every section expanded.
func DefaultSidebarState() SidebarState {
	return SidebarState{
		SectionPilotage: true,
		SectionContenu:  true,
		SectionVeille:   true,
		SectionLeads:    true,
	}
}

// IsSidebarSection checks a section name.
func IsSidebarSection(s string) bool {
	_, ok := DefaultSidebarState()[s]
	return ok
}
