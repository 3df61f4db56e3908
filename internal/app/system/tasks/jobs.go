// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.uber.org/zap"
)

// CommentTablesJob creates the comment collection for every lead-magnet
// post that does not have one yet. A soft failure for one post is logged
// and the job moves on to the next.
func CommentTablesJob(acc *remote.Accessor, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return Job{
		Name:     "comment-tables",
		Interval: interval,
		Run: func(ctx context.Context) error {
			posts, err := remote.List[models.Post](ctx, acc, models.CollPosts, remote.Query{
				Filters: []remote.Filter{
					remote.Eq("is_lead_magnet", true),
					remote.Ne("table_exist", true),
				},
				Limit: 100,
			})
			if err != nil {
				return err
			}

			created := 0
			for _, p := range posts {
				res, err := acc.InvokeAggregation(ctx, remote.ProcCreatePostCommentsTable, map[string]any{"post_id": p.ID})
				if err == nil {
					err = res.Err()
				}
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					logger.Warn("could not create comment table",
						zap.Int64("post_id", p.ID),
						zap.Error(err))
					continue
				}
				created++
			}
			if created > 0 {
				logger.Info("created comment tables", zap.Int("count", created))
			}
			return nil
		},
	}
}
