// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrInvalidTransition is returned when a status change is not allowed.
// The store is not touched in that case.
var ErrInvalidTransition = errors.New("poststore: invalid status transition")

// TransitionError carries the rejected move.
type TransitionError struct {
	From, To models.PostStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("poststore: cannot move post from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Store reads and writes our own posts.
type Store struct {
	acc *remote.Accessor
}

func New(acc *remote.Accessor) *Store {
	return &Store{acc: acc}
}

// List returns posts newest first, optionally limited to one status.
func (s *Store) List(ctx context.Context, status models.PostStatus) ([]models.Post, error) {
	q := remote.Query{OrderBy: "created_at", Desc: true}
	if status != "" {
		q.Filters = append(q.Filters, remote.Eq("status", string(status)))
	}
	return remote.List[models.Post](ctx, s.acc, models.CollPosts, q)
}

// RecentPublished returns the n latest published posts.
func (s *Store) RecentPublished(ctx context.Context, n int64) ([]models.Post, error) {
	return remote.List[models.Post](ctx, s.acc, models.CollPosts, remote.Query{
		Filters: []remote.Filter{remote.Eq("status", string(models.PostPublished))},
		OrderBy: "created_at",
		Desc:    true,
		Limit:   n,
	})
}

// Get loads one post.
func (s *Store) Get(ctx context.Context, id int64) (models.Post, error) {
	return remote.Get[models.Post](ctx, s.acc, models.CollPosts, id)
}

// CreatedSince returns posts created at or after since, newest first.
// The pending-post watch uses it to spot the workflow's write.
func (s *Store) CreatedSince(ctx context.Context, since time.Time) ([]models.Post, error) {
	return remote.List[models.Post](ctx, s.acc, models.CollPosts, remote.Query{
		Filters: []remote.Filter{remote.Gte("created_at", since)},
		OrderBy: "created_at",
		Desc:    true,
	})
}

// LeadMagnets returns lead-magnet posts whose comment table exists.
func (s *Store) LeadMagnets(ctx context.Context) ([]models.Post, error) {
	return remote.List[models.Post](ctx, s.acc, models.CollPosts, remote.Query{
		Filters: []remote.Filter{
			remote.Eq("is_lead_magnet", true),
			remote.Eq("table_exist", true),
		},
		OrderBy: "created_at",
		Desc:    true,
	})
}

// Insert stores p under a fresh numeric id. Posts normally arrive from
// the content workflow; Insert is used by seeding and tests.
func (s *Store) Insert(ctx context.Context, p models.Post) (models.Post, error) {
	if _, ok := models.ParsePostStatus(string(p.Status)); !ok {
		p.Status = models.PostDraft
	}
	id, err := s.acc.NextID(ctx, models.CollPosts)
	if err != nil {
		return models.Post{}, err
	}
	now := time.Now().UTC()
	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return remote.Insert[models.Post](ctx, s.acc, models.CollPosts, p)
}

// Transition moves post id to next. Drafts may be scheduled or published,
// scheduled posts may be published or sent back to draft, and published
// posts are final. scheduledFor is stored when next is scheduled and
// cleared when the post goes back to draft.
func (s *Store) Transition(ctx context.Context, id int64, next models.PostStatus, scheduledFor *time.Time) (models.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if !p.Status.CanTransitionTo(next) {
		return models.Post{}, &TransitionError{From: p.Status, To: next}
	}
	if next == models.PostScheduled && scheduledFor == nil {
		return models.Post{}, fmt.Errorf("poststore: scheduling needs a date: %w", ErrInvalidTransition)
	}

	set := bson.M{"status": next, "updated_at": time.Now().UTC()}
	switch next {
	case models.PostScheduled:
		set["scheduled_for"] = scheduledFor.UTC()
	case models.PostDraft:
		set["scheduled_for"] = nil
	}
	return remote.Update[models.Post](ctx, s.acc, models.CollPosts, id, set)
}

// CreateCommentsTable asks the database to create the comment collection
// of post id. A soft failure from the procedure is returned as an error.
func (s *Store) CreateCommentsTable(ctx context.Context, id int64) error {
	res, err := s.acc.InvokeAggregation(ctx, remote.ProcCreatePostCommentsTable, map[string]any{"post_id": id})
	if err != nil {
		return err
	}
	return res.Err()
}
