// internal/app/system/kpi/source.go
package kpi

import (
	"context"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
)

// RemoteSource adapts a remote.Accessor to Source.
type RemoteSource struct {
	*remote.Accessor
}

// EngagementRows reads competitor posts created since the given time whose
// likes and comments are set.
func (s RemoteSource) EngagementRows(ctx context.Context, since time.Time, limit int64) ([]models.CompetitorPost, error) {
	return remote.List[models.CompetitorPost](ctx, s.Accessor, models.CollCompetitorPosts, remote.Query{
		Filters: []remote.Filter{
			remote.Gte("created_at", since),
			remote.NotNull("likes"),
			remote.NotNull("comments"),
		},
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
	})
}
