package models

import "testing"

func TestPostStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to PostStatus
		want     bool
	}{
		{PostDraft, PostScheduled, true},
		{PostDraft, PostPublished, true},
		{PostDraft, PostDraft, false},
		{PostScheduled, PostPublished, true},
		{PostScheduled, PostDraft, true},
		{PostScheduled, PostScheduled, false},
		{PostPublished, PostDraft, false},
		{PostPublished, PostScheduled, false},
		{PostPublished, PostPublished, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParsePostStatus(t *testing.T) {
	if s, ok := ParsePostStatus("scheduled"); !ok || s != PostScheduled {
		t.Errorf("ParsePostStatus(scheduled) = %q, %v", s, ok)
	}
	if _, ok := ParsePostStatus("archived"); ok {
		t.Error("ParsePostStatus(archived) accepted an unknown status")
	}
}

func TestCompetitorPost_Interactions(t *testing.T) {
	likes, shares := int64(10), int64(2)
	p := CompetitorPost{Likes: &likes, Shares: &shares}
	if got := p.Interactions(); got != 12 {
		t.Errorf("Interactions() = %d, want 12", got)
	}
}

func TestCompetitor_Initials(t *testing.T) {
	tests := map[string]string{
		"Jean-Marc Dupont": "JM",
		"Alice":            "A",
		"":                 "",
		"Émilie Roux Test": "ÉR",
	}
	for name, want := range tests {
		if got := (Competitor{Name: name}).Initials(); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestObjectives(t *testing.T) {
	d := DefaultObjectives()
	if d.PostsPerMonth != 25 || d.LeadsPerMonth != 50 || d.CompetitorsToTrack != 10 {
		t.Errorf("DefaultObjectives() = %+v", d)
	}
	if !d.Valid() {
		t.Error("defaults must be valid")
	}
	if (Objectives{PostsPerMonth: 0, LeadsPerMonth: 1, CompetitorsToTrack: 1}).Valid() {
		t.Error("zero target accepted")
	}
}

func TestPost_Title(t *testing.T) {
	if got := (Post{Caption: "Cap", Content: "Body"}).Title(); got != "Cap" {
		t.Errorf("Title() = %q", got)
	}
	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	if got := []rune((Post{Content: long}).Title()); len(got) != 81 {
		t.Errorf("Title() length = %d, want 81", len(got))
	}
}
