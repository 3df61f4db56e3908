// internal/domain/models/collections.go
package models

// Collection names.
const (
	CollCompetitors     = "competitors"
	CollCompetitorPosts = "competitor_posts"
	CollPosts           = "posts"
	CollLeads           = "leads"
	CollPreferences     = "preferences"
	CollUsers           = "users"
)
