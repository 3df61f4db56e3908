package posts

import (
	"testing"
	"time"
)

func TestTracker_RecentIsPerUserNewestFirst(t *testing.T) {
	tr := NewTracker(10)
	now := time.Now()
	tr.Add(Submission{Token: "a", UserID: "u1", SubmittedAt: now})
	tr.Add(Submission{Token: "b", UserID: "u2", SubmittedAt: now})
	tr.Add(Submission{Token: "c", UserID: "u1", SubmittedAt: now})

	got := tr.Recent("u1")
	if len(got) != 2 || got[0].Token != "c" || got[1].Token != "a" {
		t.Errorf("Recent() = %+v", got)
	}
	if got[0].State != StatePending {
		t.Errorf("State = %q, want pending", got[0].State)
	}
}

func TestTracker_DropsOldest(t *testing.T) {
	tr := NewTracker(2)
	for _, tok := range []string{"a", "b", "c"} {
		tr.Add(Submission{Token: tok, UserID: "u"})
	}
	if _, ok := tr.Get("a"); ok {
		t.Error("oldest submission kept")
	}
	if got := tr.Recent("u"); len(got) != 2 {
		t.Errorf("len(Recent()) = %d", len(got))
	}
}

func TestTracker_ResolveOnlyMovesPending(t *testing.T) {
	tr := NewTracker(5)
	tr.Add(Submission{Token: "a", UserID: "u"})

	tr.Resolve("a", StateLanded, 7)
	tr.Resolve("a", StateTimedOut, 0)

	s, _ := tr.Get("a")
	if s.State != StateLanded || s.PostID != 7 {
		t.Errorf("submission = %+v", s)
	}
}
