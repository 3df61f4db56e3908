// internal/app/features/posts/actions.go
package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/forms"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/notify"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

func rowKey(id int64) string { return "post:" + strconv.FormatInt(id, 10) }

// lockPost parses the id and claims the row. ok is false when a response
// has already been written.
func (h *Handler) lockPost(w http.ResponseWriter, r *http.Request) (id int64, release func(), ok bool) {
	id, ok = parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return 0, nil, false
	}
	release, ok = h.guard.TryAcquire(rowKey(id))
	if !ok {
		notify.Busy(w, r)
		return 0, nil, false
	}
	return id, release, true
}

func (h *Handler) getPost(ctx context.Context, id int64) (models.Post, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.logger, "posts.get")
	defer cancel()
	return h.posts.Get(ctx, id)
}

// done answers a successful row action: htmx gets the updated row and a
// toast, a form post is redirected back to the list.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, p models.Post, code string) {
	if !notify.IsHTMX(r) {
		http.Redirect(w, r, viewdata.WithOK("/posts", code), http.StatusSeeOther)
		return
	}
	jsonutil.Notify(w, viewdata.LevelSuccess, viewdata.SuccessMessage(code))
	templates.RenderSnippet(w, "posts/row", h.newRow(p, h.now()))
}

func storeCode(err error) string {
	switch {
	case remote.IsNotFound(err):
		return viewdata.ErrNotFound
	case errors.Is(err, poststore.ErrInvalidTransition):
		return viewdata.ErrTransition
	}
	return viewdata.ErrStore
}

// publish asks the content workflow to publish a draft or scheduled post,
// then records the new status. An invalid move is refused before the
// webhook is called.
func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	id, release, ok := h.lockPost(w, r)
	if !ok {
		return
	}
	defer release()

	p, err := h.getPost(r.Context(), id)
	if err != nil {
		h.errLog.Log(r, "failed to load post", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", storeCode(err))
		return
	}
	if !p.Status.CanTransitionTo(models.PostPublished) {
		notify.Failure(w, r, "/posts", viewdata.ErrTransition)
		return
	}

	if _, err := h.relay.PostAction(r.Context(), automation.ActionPayload{
		Action:  automation.ActionPublish,
		PostID:  p.ID,
		Content: p.Content,
		Media:   p.MediaURL,
	}); err != nil {
		h.errLog.Log(r, "publish relay failed", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", viewdata.ErrRelay)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "posts.publish")
	defer cancel()
	p, err = h.posts.Transition(ctx, id, models.PostPublished, nil)
	if err != nil {
		h.errLog.Log(r, "failed to mark post published", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", storeCode(err))
		return
	}
	h.logger.Info("post published", zap.Int64("post_id", id))
	h.done(w, r, p, viewdata.OKPostPublished)
}

// schedule relays a schedule request with the chosen date and stores it.
// The date must be in the future.
func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	id, release, ok := h.lockPost(w, r)
	if !ok {
		return
	}
	defer release()

	when, err := time.ParseInLocation(forms.ScheduleLayout, r.FormValue("scheduled_for"), h.opts.Location)
	if err != nil || !when.After(h.now()) {
		notify.Failure(w, r, "/posts", viewdata.ErrInvalid)
		return
	}

	p, err := h.getPost(r.Context(), id)
	if err != nil {
		h.errLog.Log(r, "failed to load post", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", storeCode(err))
		return
	}
	if !p.Status.CanTransitionTo(models.PostScheduled) {
		notify.Failure(w, r, "/posts", viewdata.ErrTransition)
		return
	}

	utc := when.UTC()
	if _, err := h.relay.PostAction(r.Context(), automation.ActionPayload{
		Action:       automation.ActionSchedule,
		PostID:       p.ID,
		Content:      p.Content,
		Media:        p.MediaURL,
		ScheduledFor: &utc,
	}); err != nil {
		h.errLog.Log(r, "schedule relay failed", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", viewdata.ErrRelay)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "posts.schedule")
	defer cancel()
	p, err = h.posts.Transition(ctx, id, models.PostScheduled, &utc)
	if err != nil {
		h.errLog.Log(r, "failed to mark post scheduled", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", storeCode(err))
		return
	}
	h.logger.Info("post scheduled", zap.Int64("post_id", id), zap.Time("scheduled_for", utc))
	h.done(w, r, p, viewdata.OKPostScheduled)
}

// commentsTable creates the lead-magnet comment collection of a post
// through its stored procedure.
func (h *Handler) commentsTable(w http.ResponseWriter, r *http.Request) {
	id, release, ok := h.lockPost(w, r)
	if !ok {
		return
	}
	defer release()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "posts.commentsTable")
	defer cancel()
	if err := h.posts.CreateCommentsTable(ctx, id); err != nil {
		h.errLog.Log(r, "comment table procedure failed", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", viewdata.ErrProcedure)
		return
	}
	p, err := h.posts.Get(ctx, id)
	if err != nil {
		h.errLog.Log(r, "failed to reload post", err, zap.Int64("post_id", id))
		notify.Failure(w, r, "/posts", storeCode(err))
		return
	}
	h.done(w, r, p, viewdata.OKTableCreated)
}
