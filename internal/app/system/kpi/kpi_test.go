package kpi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSource struct {
	counts   map[string]int64
	countErr map[string]error
	rows     []models.CompetitorPost
	rowsErr  error
	procs    map[string]remote.ProcedureResult
	procErr  map[string]error
	gotSince time.Time
}

func key(coll string, filters []remote.Filter) string {
	k := coll
	for _, f := range filters {
		k += "|" + f.Field + ":" + string(f.Op)
	}
	return k
}

func (f *fakeSource) CountWhere(_ context.Context, coll string, filters ...remote.Filter) (int64, error) {
	k := key(coll, filters)
	if err := f.countErr[k]; err != nil {
		return 0, err
	}
	return f.counts[k], nil
}

func (f *fakeSource) InvokeAggregation(_ context.Context, name string, args map[string]any) (remote.ProcedureResult, error) {
	table, _ := args["table_name"].(string)
	if err := f.procErr[table]; err != nil {
		return nil, err
	}
	return f.procs[table], nil
}

func (f *fakeSource) EngagementRows(_ context.Context, since time.Time, _ int64) ([]models.CompetitorPost, error) {
	f.gotSince = since
	return f.rows, f.rowsErr
}

func i64(v int64) *int64 { return &v }

func TestMonthStart(t *testing.T) {
	now := time.Date(2025, 3, 17, 15, 4, 5, 0, time.UTC)
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthStart(now); !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}
}

func TestDashboard(t *testing.T) {
	src := &fakeSource{
		counts: map[string]int64{
			"posts|status:eq":                4,
			"leads":                          120,
			"competitors":                    7,
			"posts|created_at:gte":           50, // drafts included, must not be used
			"posts|status:eq|created_at:gte": 3,
			"leads|date:gte":                 33,
		},
		rows: []models.CompetitorPost{
			{Likes: i64(10), Comments: i64(2), Shares: i64(3)},
			{Likes: i64(4), Comments: i64(0)},
		},
	}
	now := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)

	d, err := New(src, zap.NewNop()).Dashboard(context.Background(), now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	want := Dashboard{PublishedPosts: 4, TotalLeads: 120, Competitors: 7, PostsThisMonth: 3, LeadsThisMonth: 33, Engagement: 9.5}
	if d != want {
		t.Errorf("Dashboard = %+v, want %+v", d, want)
	}
	if !src.gotSince.Equal(MonthStart(now)) {
		t.Errorf("engagement read since %v, want month start", src.gotSince)
	}
}

func TestDashboard_PartialFailure(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{
		counts:   map[string]int64{"competitors": 3},
		countErr: map[string]error{"leads": boom},
	}

	d, err := New(src, zap.NewNop()).Dashboard(context.Background(), time.Now())
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want it to wrap boom", err)
	}
	if d.Competitors != 3 {
		t.Errorf("Competitors = %d, want 3 despite the leads failure", d.Competitors)
	}
}

func TestEngagement(t *testing.T) {
	if got := Engagement(nil); got != 0 {
		t.Errorf("Engagement(nil) = %v, want exactly 0", got)
	}
	rows := []models.CompetitorPost{
		{Likes: i64(1), Comments: i64(1), Shares: i64(1)},
		{Likes: i64(1), Comments: i64(1)},
		{Likes: nil, Comments: i64(100)},
	}
	if got := Engagement(rows); got != 2.5 {
		t.Errorf("Engagement = %v, want 2.5", got)
	}
	third := []models.CompetitorPost{{Likes: i64(1), Comments: i64(0)}, {Likes: i64(0), Comments: i64(0)}, {Likes: i64(0), Comments: i64(0)}}
	if got := Engagement(third); got != 0.3 {
		t.Errorf("Engagement = %v, want 0.3", got)
	}
}

func TestGoals(t *testing.T) {
	goals := Goals(Dashboard{PostsThisMonth: 30, LeadsThisMonth: 10, Competitors: 0}, models.DefaultObjectives())
	if len(goals) != 3 {
		t.Fatalf("len(goals) = %d", len(goals))
	}
	if goals[0].Percent != 100 {
		t.Errorf("posts goal = %v, want capped at 100", goals[0].Percent)
	}
	if goals[1].Percent != 20 || goals[1].PercentLabel() != "20%" {
		t.Errorf("leads goal = %v (%s), want 20", goals[1].Percent, goals[1].PercentLabel())
	}
	if goals[2].Percent != 0 {
		t.Errorf("competitors goal = %v, want 0", goals[2].Percent)
	}
}

func TestCountCompetitors_ScenarioA(t *testing.T) {
	tiles := CountCompetitors([]models.Competitor{
		{ID: 1, Status: models.CompetitorActive},
		{ID: 2, Status: models.CompetitorMonitoring},
	})
	if tiles.Total != 2 || tiles.Active != 1 || tiles.Monitoring != 1 {
		t.Errorf("tiles = %+v, want total=2 active=1 monitoring=1", tiles)
	}
}

func TestCompetitorTiles_Remove(t *testing.T) {
	tiles := CountCompetitors([]models.Competitor{
		{ID: 1, Status: models.CompetitorActive},
		{ID: 2, Status: models.CompetitorMonitoring},
	})
	tiles.Remove(models.CompetitorMonitoring)
	want := CompetitorTiles{Total: 1, Active: 1}
	if tiles != want {
		t.Errorf("after remove = %+v, want %+v", tiles, want)
	}

	var empty CompetitorTiles
	empty.Remove(models.CompetitorActive)
	if empty != (CompetitorTiles{}) {
		t.Errorf("remove on empty tiles = %+v", empty)
	}
}

func TestCountLeads(t *testing.T) {
	tiles := CountLeads([]models.Lead{
		{Company: "Acme", ConnectionStatus: "Acceptée", DMStatus: "DM envoyé"},
		{Company: "acme ", ConnectionStatus: "pending", DMStatus: "sent"},
		{Company: "Globex", ConnectionStatus: "accepted"},
		{Company: ""},
	})
	want := LeadTiles{Total: 4, Accepted: 2, DMSent: 2, Companies: 2}
	if tiles != want {
		t.Errorf("CountLeads = %+v, want %+v", tiles, want)
	}
}

func TestLeadMagnet_SkipsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := &fakeSource{
		procs: map[string]remote.ProcedureResult{
			"post_comments_1": {"total": int64(5), "received_dm": int64(2), "connection_request": int64(3), "not_received_dm": int64(3), "not_connection_request": int64(2)},
			"post_comments_2": {"error": "relation does not exist"},
			"post_comments_4": {"total": int32(1), "received_dm": int32(1), "connection_request": int32(0), "not_received_dm": int32(0), "not_connection_request": int32(1)},
		},
		procErr: map[string]error{"post_comments_3": errors.New("network down")},
	}
	posts := []models.Post{
		{ID: 1, TableExist: true, CommentsTableName: "post_comments_1"},
		{ID: 2, TableExist: true, CommentsTableName: "post_comments_2"},
		{ID: 3, TableExist: true, CommentsTableName: "post_comments_3"},
		{ID: 4, TableExist: true, CommentsTableName: "post_comments_4"},
		{ID: 5, TableExist: false},
	}

	lm := New(src, zap.New(core)).LeadMagnet(context.Background(), posts)

	want := CommentCounts{Total: 6, ReceivedDM: 3, ConnectionRequest: 3, NotReceivedDM: 3, NotConnectionRequest: 3}
	if lm.Totals != want {
		t.Errorf("Totals = %+v, want %+v", lm.Totals, want)
	}
	if lm.Failed != 2 {
		t.Errorf("Failed = %d, want 2", lm.Failed)
	}
	if len(lm.Posts) != 4 {
		t.Errorf("len(Posts) = %d, want 4 (post without table skipped)", len(lm.Posts))
	}
	if logs.Len() != 2 {
		t.Errorf("logged %d warnings, want 2", logs.Len())
	}
}

func TestRecentActivity(t *testing.T) {
	now := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	leadDate := now.Add(-10 * time.Minute)
	old := now.Add(-72 * time.Hour)

	items := RecentActivity(
		[]models.Post{{ID: 1, Content: "Post A", CreatedAt: now.Add(-5 * time.Hour)}, {ID: 2, Content: "Post B", CreatedAt: old}},
		[]models.Lead{{Name: "Léa", Company: "Acme", Date: &leadDate}, {Name: "Sans date"}},
		[]models.Competitor{{Name: "Rival", CreatedAt: now.Add(-2 * time.Hour)}},
		now, 4,
	)

	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	wantKinds := []string{"lead", "competitor", "post", "post"}
	for i, k := range wantKinds {
		if items[i].Kind != k {
			t.Errorf("items[%d].Kind = %q, want %q (%+v)", i, items[i].Kind, k, items)
		}
	}
	if items[0].Detail != "Léa · Acme" || items[0].When != "Il y a 10min" {
		t.Errorf("first item = %+v", items[0])
	}
}
