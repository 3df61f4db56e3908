// internal/app/system/automation/payloads.go
package automation

import (
	"context"
	"time"
)

// CompetitorPayload asks the ingestion workflow to scrape and enrich a
// LinkedIn profile. The competitor shows up in the store later.
type CompetitorPayload struct {
	URL string `json:"url"`
}

// ContentPayload asks the content workflow to generate or publish a post.
type ContentPayload struct {
	TypePost     string     `json:"type_post"`    // full | idea
	Contenu      string     `json:"contenu"`      // post text or idea
	OptionImage  string     `json:"option_image"` // upload | ai | none
	PromptImage  string     `json:"prompt_image,omitempty"`
	HasCTA       bool       `json:"has_cta"`
	CTAKeyword   string     `json:"cta_keyword,omitempty"`
	SaveAs       string     `json:"save_as"` // draft | scheduled | published
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Post actions.
const (
	ActionPublish  = "publish"
	ActionSchedule = "schedule"
)

// ActionPayload publishes or schedules an existing draft.
type ActionPayload struct {
	Action       string     `json:"action"`
	PostID       int64      `json:"post_id"`
	Content      string     `json:"content"`
	Media        string     `json:"media"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// AddCompetitor relays a profile URL to the ingestion webhook.
func (c *Client) AddCompetitor(ctx context.Context, url string) (Response, error) {
	return c.Relay(ctx, c.cfg.CompetitorURL, CompetitorPayload{URL: url})
}

// SubmitContent relays a new-post request to the content webhook.
func (c *Client) SubmitContent(ctx context.Context, p ContentPayload) (Response, error) {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return c.Relay(ctx, c.cfg.ContentURL, p)
}

// PostAction relays a publish or schedule action to the content webhook.
func (c *Client) PostAction(ctx context.Context, p ActionPayload) (Response, error) {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return c.Relay(ctx, c.cfg.ContentURL, p)
}
