// internal/app/features/posts/tracker.go
package posts

import (
	"slices"
	"sync"
	"time"
)

// SubmissionState is where a post request stands after the form closed.
type SubmissionState string

const (
	StatePending  SubmissionState = "pending"   // relayed or relaying, post not seen yet
	StateLanded   SubmissionState = "landed"    // the workflow wrote the post
	StateTimedOut SubmissionState = "timed_out" // the watch gave up
	StateFailed   SubmissionState = "failed"    // the relay itself failed
)

// Label returns the French display label.
func (s SubmissionState) Label() string {
	switch s {
	case StatePending:
		return "En cours de génération"
	case StateLanded:
		return "Post créé"
	case StateTimedOut:
		return "Toujours en attente, vérifiez plus tard"
	case StateFailed:
		return "Échec de l'envoi"
	}
	return string(s)
}

// Submission is one post request sent to the content workflow.
type Submission struct {
	Token       string
	UserID      string
	Summary     string
	SubmittedAt time.Time
	State       SubmissionState
	PostID      int64
}

// Tracker remembers the latest submissions of this process so the posts
// page can show what is still being generated.
type Tracker struct {
	mu    sync.Mutex
	items []Submission
	max   int
}

// NewTracker keeps at most limit submissions, dropping the oldest.
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = 20
	}
	return &Tracker{max: limit}
}

// Add records a new pending submission.
func (t *Tracker) Add(s Submission) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.State == "" {
		s.State = StatePending
	}
	t.items = append(t.items, s)
	if len(t.items) > t.max {
		t.items = slices.Delete(t.items, 0, len(t.items)-t.max)
	}
}

// Resolve sets the final state of token. Only pending submissions move.
func (t *Tracker) Resolve(token string, state SubmissionState, postID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].Token == token && t.items[i].State == StatePending {
			t.items[i].State = state
			t.items[i].PostID = postID
			return
		}
	}
}

// Recent returns userID's submissions, newest first.
func (t *Tracker) Recent(userID string) []Submission {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Submission
	for i := len(t.items) - 1; i >= 0; i-- {
		if t.items[i].UserID == userID {
			out = append(out, t.items[i])
		}
	}
	return out
}

// Get returns the submission for token.
func (t *Tracker) Get(token string) (Submission, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.items {
		if s.Token == token {
			return s, true
		}
	}
	return Submission{}, false
}
