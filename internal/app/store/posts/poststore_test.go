package poststore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/strataleads/internal/testutil"
)

func TestStore_Transition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(remote.New(db))

	p, err := store.Insert(ctx, models.Post{Content: "Trois leçons", Type: models.PostTypeFull})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if p.Status != models.PostDraft {
		t.Fatalf("Status = %q, want draft", p.Status)
	}

	if _, err := store.Transition(ctx, p.ID, models.PostScheduled, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("scheduling without a date: error = %v", err)
	}

	when := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	got, err := store.Transition(ctx, p.ID, models.PostScheduled, &when)
	if err != nil {
		t.Fatalf("draft->scheduled error = %v", err)
	}
	if got.Status != models.PostScheduled || got.ScheduledFor == nil || !got.ScheduledFor.Equal(when) {
		t.Errorf("after schedule = %+v", got)
	}

	got, err = store.Transition(ctx, p.ID, models.PostDraft, nil)
	if err != nil {
		t.Fatalf("scheduled->draft error = %v", err)
	}
	if got.ScheduledFor != nil {
		t.Errorf("scheduled_for not cleared: %v", got.ScheduledFor)
	}

	if _, err := store.Transition(ctx, p.ID, models.PostPublished, nil); err != nil {
		t.Fatalf("draft->published error = %v", err)
	}

	_, err = store.Transition(ctx, p.ID, models.PostDraft, nil)
	var te *TransitionError
	if !errors.As(err, &te) || te.From != models.PostPublished {
		t.Fatalf("published->draft error = %v, want TransitionError", err)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("TransitionError does not unwrap to ErrInvalidTransition")
	}
	after, _ := store.Get(ctx, p.ID)
	if after.Status != models.PostPublished {
		t.Errorf("rejected transition changed the row: %q", after.Status)
	}
}

func TestStore_TransitionMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := New(remote.New(db)).Transition(ctx, 404, models.PostPublished, nil)
	if !remote.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestStore_CommentsTableAndLeadMagnets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(remote.New(db))

	p, err := store.Insert(ctx, models.Post{Content: "Commentez GUIDE", IsLeadMagnet: true, CTAKeyword: "GUIDE"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Insert(ctx, models.Post{Content: "plain"}); err != nil {
		t.Fatal(err)
	}

	lm, err := store.LeadMagnets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lm) != 0 {
		t.Errorf("LeadMagnets() before table = %d rows", len(lm))
	}

	if err := store.CreateCommentsTable(ctx, p.ID); err != nil {
		t.Fatalf("CreateCommentsTable() error = %v", err)
	}
	if err := store.CreateCommentsTable(ctx, p.ID); err != nil {
		t.Fatalf("second CreateCommentsTable() error = %v", err)
	}

	lm, err = store.LeadMagnets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lm) != 1 || lm[0].CommentsTableName == "" {
		t.Errorf("LeadMagnets() = %+v", lm)
	}

	if err := store.CreateCommentsTable(ctx, 9999); err == nil {
		t.Error("CreateCommentsTable(missing) returned nil")
	}
}

func TestStore_CreatedSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(remote.New(db))

	mark := time.Now().UTC()
	if _, err := store.Insert(ctx, models.Post{Content: "before", CreatedAt: mark.Add(-time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Insert(ctx, models.Post{Content: "after"}); err != nil {
		t.Fatal(err)
	}

	rows, err := store.CreatedSince(ctx, mark.Add(-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Content != "after" {
		t.Errorf("CreatedSince() = %v", rows)
	}
}

func TestStore_RecentPublished(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(remote.New(db))

	base := time.Now().UTC().Add(-time.Hour)
	for i, p := range []models.Post{
		{Content: "one", Status: models.PostPublished},
		{Content: "two", Status: models.PostPublished},
		{Content: "three", Status: models.PostPublished},
		{Content: "draft", Status: models.PostDraft},
	} {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Insert(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := store.RecentPublished(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Content != "three" || rows[1].Content != "two" {
		t.Errorf("RecentPublished(2) = %v", rows)
	}
}
