// internal/app/store/competitorposts/cpoststore.go
package cpoststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
)

// ErrUnknownCompetitor is returned when an insert references a competitor
// that does not exist.
var ErrUnknownCompetitor = errors.New("cpoststore: competitor does not exist")

// Store reads and writes scraped competitor posts.
type Store struct {
	acc *remote.Accessor
}

func New(acc *remote.Accessor) *Store {
	return &Store{acc: acc}
}

// ListByCompetitor returns one competitor's posts, newest post first.
func (s *Store) ListByCompetitor(ctx context.Context, competitorID int64) ([]models.CompetitorPost, error) {
	return remote.List[models.CompetitorPost](ctx, s.acc, models.CollCompetitorPosts, remote.Query{
		Filters: []remote.Filter{remote.Eq("competitor_id", competitorID)},
		OrderBy: "post_date",
		Desc:    true,
	})
}

// ListRecent returns posts across all competitors, most recently scraped
// first.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.CompetitorPost, error) {
	return remote.List[models.CompetitorPost](ctx, s.acc, models.CollCompetitorPosts, remote.Query{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
	})
}

// Insert stores p after checking that its competitor exists.
func (s *Store) Insert(ctx context.Context, p models.CompetitorPost) (models.CompetitorPost, error) {
	n, err := s.acc.CountWhere(ctx, models.CollCompetitors, remote.Eq("_id", p.CompetitorID))
	if err != nil {
		return models.CompetitorPost{}, err
	}
	if n == 0 {
		return models.CompetitorPost{}, ErrUnknownCompetitor
	}

	id, err := s.acc.NextID(ctx, models.CollCompetitorPosts)
	if err != nil {
		return models.CompetitorPost{}, err
	}
	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.PostDate == nil {
		d := p.CreatedAt
		p.PostDate = &d
	}
	return remote.Insert[models.CompetitorPost](ctx, s.acc, models.CollCompetitorPosts, p)
}

// CountSince counts posts scraped at or after since.
func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.acc.CountWhere(ctx, models.CollCompetitorPosts, remote.Gte("created_at", since))
}
