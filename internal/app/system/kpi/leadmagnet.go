// internal/app/system/kpi/leadmagnet.go
package kpi

import (
	"context"

	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"go.uber.org/zap"
)

// CommentCounts is the per-post breakdown returned by the count procedure.
type CommentCounts struct {
	Total                int64
	ReceivedDM           int64
	ConnectionRequest    int64
	NotReceivedDM        int64
	NotConnectionRequest int64
}

func (c *CommentCounts) add(o CommentCounts) {
	c.Total += o.Total
	c.ReceivedDM += o.ReceivedDM
	c.ConnectionRequest += o.ConnectionRequest
	c.NotReceivedDM += o.NotReceivedDM
	c.NotConnectionRequest += o.NotConnectionRequest
}

// PostCounts pairs a lead-magnet post with its comment counts.
type PostCounts struct {
	Post   models.Post
	Counts CommentCounts
	Failed bool // the count call failed; Counts is zero
}

// LeadMagnet is the aggregate over every post with a comment table.
type LeadMagnet struct {
	Totals CommentCounts
	Posts  []PostCounts
	Failed int
}

// LeadMagnet invokes the comment-count procedure for each post that has a
// comment table. A call that fails, softly or hard, is logged and left out
// of the totals; the others still count.
func (s *Service) LeadMagnet(ctx context.Context, posts []models.Post) LeadMagnet {
	var out LeadMagnet
	for _, p := range posts {
		if !p.TableExist || p.CommentsTableName == "" {
			continue
		}
		res, err := s.src.InvokeAggregation(ctx, remote.ProcCountCommentsByStatus, map[string]any{
			"table_name": p.CommentsTableName,
		})
		if err == nil {
			err = res.Err()
		}
		if err != nil {
			s.logger.Warn("comment count failed, skipping post",
				zap.Int64("post_id", p.ID),
				zap.String("table", p.CommentsTableName),
				zap.Error(err))
			out.Failed++
			out.Posts = append(out.Posts, PostCounts{Post: p, Failed: true})
			continue
		}

		c := CommentCounts{
			Total:                res.Int("total"),
			ReceivedDM:           res.Int("received_dm"),
			ConnectionRequest:    res.Int("connection_request"),
			NotReceivedDM:        res.Int("not_received_dm"),
			NotConnectionRequest: res.Int("not_connection_request"),
		}
		out.Totals.add(c)
		out.Posts = append(out.Posts, PostCounts{Post: p, Counts: c})
	}
	return out
}
