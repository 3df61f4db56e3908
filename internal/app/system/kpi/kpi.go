// internal/app/system/kpi/kpi.go
package kpi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.uber.org/zap"
)

// engagementRowLimit bounds the competitor-post read used for the
// engagement average.
const engagementRowLimit = 1000

// Source is the slice of the remote accessor the aggregations need.
type Source interface {
	CountWhere(ctx context.Context, collection string, filters ...remote.Filter) (int64, error)
	InvokeAggregation(ctx context.Context, name string, args map[string]any) (remote.ProcedureResult, error)
	EngagementRows(ctx context.Context, since time.Time, limit int64) ([]models.CompetitorPost, error)
}

// Service computes dashboard numbers.
type Service struct {
	src    Source
	logger *zap.Logger
}

// New creates a Service.
func New(src Source, logger *zap.Logger) *Service {
	return &Service{src: src, logger: logger}
}

// MonthStart returns midnight on the first day of now's month.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Dashboard holds the top-level KPI numbers.
type Dashboard struct {
	PublishedPosts int64
	TotalLeads     int64
	Competitors    int64
	PostsThisMonth int64
	LeadsThisMonth int64
	Engagement     float64
}

// Dashboard runs the count queries and the engagement read concurrently.
// Every figure that could be computed is returned; failures are joined
// into the error so the caller can notify while still rendering.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (Dashboard, error) {
	since := MonthStart(now)
	var (
		d    Dashboard
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	count := func(dst *int64, coll string, filters ...remote.Filter) {
		defer wg.Done()
		n, err := s.src.CountWhere(ctx, coll, filters...)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = n
	}

	wg.Add(6)
	go count(&d.PublishedPosts, models.CollPosts, remote.Eq("status", string(models.PostPublished)))
	go count(&d.TotalLeads, models.CollLeads)
	go count(&d.Competitors, models.CollCompetitors)
	go count(&d.PostsThisMonth, models.CollPosts,
		remote.Eq("status", string(models.PostPublished)), remote.Gte("created_at", since))
	go count(&d.LeadsThisMonth, models.CollLeads, remote.Gte("date", since))
	go func() {
		defer wg.Done()
		rows, err := s.src.EngagementRows(ctx, since, engagementRowLimit)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		d.Engagement = Engagement(rows)
	}()
	wg.Wait()

	return d, errors.Join(errs...)
}

// Engagement is the mean of likes+comments+shares over rows, rounded to
// one decimal. Rows whose likes or comments are null are skipped; no rows
// gives exactly 0.
func Engagement(rows []models.CompetitorPost) float64 {
	var sum, n int64
	for _, r := range rows {
		if r.Likes == nil || r.Comments == nil {
			continue
		}
		sum += r.Interactions()
		n++
	}
	if n == 0 {
		return 0
	}
	return format.Round1(float64(sum) / float64(n))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Goals                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// Goal is one objective with its progress.
type Goal struct {
	Label   string
	Current int64
	Target  int64
	Percent float64
}

// PercentLabel renders Percent for templates.
func (g Goal) PercentLabel() string { return format.Percent(g.Percent) }

// Goals builds the three goal-progress bars.
func Goals(d Dashboard, o models.Objectives) []Goal {
	mk := func(label string, cur int64, target int) Goal {
		t := int64(target)
		return Goal{Label: label, Current: cur, Target: t, Percent: format.GoalPercentage(cur, t)}
	}
	return []Goal{
		mk("Posts publiés ce mois", d.PostsThisMonth, o.PostsPerMonth),
		mk("Leads générés ce mois", d.LeadsThisMonth, o.LeadsPerMonth),
		mk("Concurrents suivis", d.Competitors, o.CompetitorsToTrack),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Tiles                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// CompetitorTiles are the counts above the competitor list.
type CompetitorTiles struct {
	Total      int
	Active     int
	Monitoring int
	Paused     int
	Inactive   int
}

// CountCompetitors tallies competitors by status.
func CountCompetitors(rows []models.Competitor) CompetitorTiles {
	t := CompetitorTiles{Total: len(rows)}
	for _, c := range rows {
		switch c.Status {
		case models.CompetitorActive:
			t.Active++
		case models.CompetitorMonitoring:
			t.Monitoring++
		case models.CompetitorPaused:
			t.Paused++
		case models.CompetitorInactive:
			t.Inactive++
		}
	}
	return t
}

// Remove takes one competitor of the given status out of the counts.
func (t *CompetitorTiles) Remove(status models.CompetitorStatus) {
	if t.Total == 0 {
		return
	}
	t.Total--
	switch status {
	case models.CompetitorActive:
		t.Active--
	case models.CompetitorMonitoring:
		t.Monitoring--
	case models.CompetitorPaused:
		t.Paused--
	case models.CompetitorInactive:
		t.Inactive--
	}
}

// LeadTiles are the counts above the leads table.
type LeadTiles struct {
	Total     int
	Accepted  int
	DMSent    int
	Companies int
}

// CountLeads tallies accepted connections, sent DMs and distinct companies.
func CountLeads(rows []models.Lead) LeadTiles {
	t := LeadTiles{Total: len(rows)}
	companies := make(map[string]struct{})
	for _, l := range rows {
		if strings.Contains(strings.ToLower(l.ConnectionStatus), "accept") {
			t.Accepted++
		}
		dm := strings.ToLower(l.DMStatus)
		if strings.Contains(dm, "envoy") || strings.Contains(dm, "sent") {
			t.DMSent++
		}
		if c := strings.TrimSpace(strings.ToLower(l.Company)); c != "" {
			companies[c] = struct{}{}
		}
	}
	t.Companies = len(companies)
	return t
}

/*─────────────────────────────────────────────────────────────────────────────*
| Recent activity                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Activity is one line of the recent-activity feed.
type Activity struct {
	Kind   string // post, lead, competitor
	Title  string
	Detail string
	When   string // relative time label
}

// RecentActivity formats the latest posts, leads and competitors, orders
// them by recency using the relative labels, and keeps the first n.
func RecentActivity(posts []models.Post, leads []models.Lead, competitors []models.Competitor, now time.Time, n int) []Activity {
	var items []Activity
	for _, p := range posts {
		ts := p.CreatedAt
		items = append(items, Activity{
			Kind:   "post",
			Title:  "Post publié",
			Detail: p.Title(),
			When:   format.Relative(&ts, now),
		})
	}
	for _, l := range leads {
		detail := l.Name
		if l.Company != "" {
			detail += " · " + l.Company
		}
		items = append(items, Activity{
			Kind:   "lead",
			Title:  "Nouveau lead",
			Detail: detail,
			When:   format.Relative(l.Date, now),
		})
	}
	for _, c := range competitors {
		ts := c.CreatedAt
		items = append(items, Activity{
			Kind:   "competitor",
			Title:  "Concurrent ajouté",
			Detail: c.Name,
			When:   format.Relative(&ts, now),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return format.ParseRelative(items[i].When) < format.ParseRelative(items[j].When)
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
