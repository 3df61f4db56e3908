// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads leads. Rows are written by the ingestion process, keyed by
// the LinkedIn profile id.
type Store struct {
	acc *remote.Accessor
}

func New(acc *remote.Accessor) *Store {
	return &Store{acc: acc}
}

// List returns every lead, most recent first.
func (s *Store) List(ctx context.Context) ([]models.Lead, error) {
	return remote.List[models.Lead](ctx, s.acc, models.CollLeads, remote.Query{OrderBy: "date", Desc: true})
}

// Recent returns the n most recent leads.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.Lead, error) {
	return remote.List[models.Lead](ctx, s.acc, models.CollLeads, remote.Query{OrderBy: "date", Desc: true, Limit: n})
}

// Upsert writes a lead under its LinkedIn id. Re-ingesting the same
// profile updates it in place.
func (s *Store) Upsert(ctx context.Context, l models.Lead) error {
	_, err := s.acc.Database().Collection(models.CollLeads).ReplaceOne(ctx,
		bson.M{"_id": l.LinkedInID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return &remote.DataAccessError{Op: "upsert", Collection: models.CollLeads, Err: err}
	}
	return nil
}
