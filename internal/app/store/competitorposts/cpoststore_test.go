package cpoststore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/strataleads/internal/testutil"
)

func count(n int64) *int64 { return &n }

func TestStore_InsertRejectsUnknownCompetitor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(remote.New(db))

	_, err := store.Insert(ctx, models.CompetitorPost{CompetitorID: 42, Caption: "orphan"})
	if !errors.Is(err, ErrUnknownCompetitor) {
		t.Fatalf("Insert() error = %v, want ErrUnknownCompetitor", err)
	}
	n, err := store.CountSince(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("orphan post was written")
	}
}

func TestStore_ListOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acc := remote.New(db)
	store := New(acc)

	c, err := remote.Insert[models.Competitor](ctx, acc, models.CollCompetitors, models.Competitor{ID: 7, Name: "Eva", Status: models.CompetitorActive})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	old := now.Add(-72 * time.Hour)
	recent := now.Add(-2 * time.Hour)
	if _, err := store.Insert(ctx, models.CompetitorPost{CompetitorID: c.ID, Caption: "old", PostDate: &old, Likes: count(3)}); err != nil {
		t.Fatal(err)
	}
	p, err := store.Insert(ctx, models.CompetitorPost{CompetitorID: c.ID, Caption: "recent", PostDate: &recent})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.Likes != nil {
		t.Errorf("Insert() = %+v, want id and null likes", p)
	}

	rows, err := store.ListByCompetitor(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Caption != "recent" {
		t.Errorf("ListByCompetitor() = %v, want newest post first", rows)
	}

	recentRows, err := store.ListRecent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recentRows) != 1 || recentRows[0].Caption != "recent" {
		t.Errorf("ListRecent(1) = %v", recentRows)
	}

	n, err := store.CountSince(ctx, now.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CountSince() = %d, want 2", n)
	}
}
