// internal/app/store/competitors/competitorstore.go
package competitorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/txn"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Store reads and writes tracked competitors. New competitors normally
// arrive through the ingestion workflow; Insert exists for seeding and
// tests.
type Store struct {
	acc *remote.Accessor
}

func New(acc *remote.Accessor) *Store {
	return &Store{acc: acc}
}

// List returns competitors newest first, optionally limited to a status.
func (s *Store) List(ctx context.Context, status models.CompetitorStatus) ([]models.Competitor, error) {
	q := remote.Query{OrderBy: "created_at", Desc: true}
	if status != "" {
		q.Filters = append(q.Filters, remote.Eq("status", string(status)))
	}
	return remote.List[models.Competitor](ctx, s.acc, models.CollCompetitors, q)
}

// Recent returns the n latest competitors.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.Competitor, error) {
	return remote.List[models.Competitor](ctx, s.acc, models.CollCompetitors, remote.Query{OrderBy: "created_at", Desc: true, Limit: n})
}

// Get loads one competitor.
func (s *Store) Get(ctx context.Context, id int64) (models.Competitor, error) {
	return remote.Get[models.Competitor](ctx, s.acc, models.CollCompetitors, id)
}

// Exists reports whether id references a competitor.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := s.acc.CountWhere(ctx, models.CollCompetitors, remote.Eq("_id", id))
	return n > 0, err
}

// Insert stores c under a fresh numeric id.
func (s *Store) Insert(ctx context.Context, c models.Competitor) (models.Competitor, error) {
	id, err := s.acc.NextID(ctx, models.CollCompetitors)
	if err != nil {
		return models.Competitor{}, err
	}
	c.ID = id
	if c.Status == "" {
		c.Status = models.CompetitorActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return remote.Insert[models.Competitor](ctx, s.acc, models.CollCompetitors, c)
}

// SetStatus changes the monitoring status.
func (s *Store) SetStatus(ctx context.Context, id int64, status models.CompetitorStatus) (models.Competitor, error) {
	if !models.IsValidCompetitorStatus(string(status)) {
		return models.Competitor{}, fmt.Errorf("competitorstore: invalid status %q", status)
	}
	return remote.Update[models.Competitor](ctx, s.acc, models.CollCompetitors, id, bson.M{"status": status})
}

// SetNotes replaces the free-text notes. Callers sanitize.
func (s *Store) SetNotes(ctx context.Context, id int64, notes string) (models.Competitor, error) {
	return remote.Update[models.Competitor](ctx, s.acc, models.CollCompetitors, id, bson.M{"notes": notes})
}

// Delete removes a competitor and its scraped posts together so no post
// is left pointing at a missing competitor. Without transaction support
// the competitor goes first.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return txn.Run(ctx, s.acc.Database(), nil, func(ctx context.Context) error {
		if err := s.acc.Delete(ctx, models.CollCompetitors, id); err != nil {
			return err
		}
		_, err := s.acc.DeleteWhere(ctx, models.CollCompetitorPosts, remote.Eq("competitor_id", id))
		return err
	})
}
