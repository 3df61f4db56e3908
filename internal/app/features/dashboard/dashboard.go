// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	leadstore "github.com/dalemusser/strataleads/internal/app/store/leads"
	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/kpi"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// activityLimit is the length of the recent-activity feed.
const activityLimit = 4

// Handler provides dashboard handlers.
type Handler struct {
	kpis        *kpi.Service
	posts       *poststore.Store
	leads       *leadstore.Store
	competitors *competitorstore.Store
	prefs       *prefstore.Store
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a new dashboard Handler.
func NewHandler(acc *remote.Accessor, prefs *prefstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		kpis:        kpi.New(kpi.RemoteSource{Accessor: acc}, logger),
		posts:       poststore.New(acc),
		leads:       leadstore.New(acc),
		competitors: competitorstore.New(acc),
		prefs:       prefs,
		errLog:      errLog,
		logger:      logger,
		now:         time.Now,
	}
}

// Tile is one KPI box.
type Tile struct {
	Label string
	Value string
	Hint  string
}

// KPIsVM is the polled part of the dashboard.
type KPIsVM struct {
	Tiles          []Tile
	Goals          []kpi.Goal
	Activity       []kpi.Activity
	EmptyActivity  viewdata.Empty
	RefreshSeconds int
}

// DashboardVM is the view model for the dashboard page.
type DashboardVM struct {
	viewdata.BaseVM
	KPIs KPIsVM
}

// Routes returns a chi.Router with dashboard routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Get("/kpis", h.kpisFragment)
	return r
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	vm := DashboardVM{BaseVM: viewdata.NewBaseVM(r, "Tableau de bord", "/")}
	kpis, err := h.load(r)
	if err != nil {
		h.errLog.Log(r, "dashboard figures incomplete", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	kpis.RefreshSeconds = vm.RefreshSeconds
	vm.KPIs = kpis
	templates.Render(w, r, "dashboard/index", vm)
}

// kpisFragment is re-requested by the page every refresh interval.
func (h *Handler) kpisFragment(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.load(r)
	if err != nil {
		h.errLog.Log(r, "dashboard figures incomplete", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
	}
	kpis.RefreshSeconds = viewdata.New(r).RefreshSeconds
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "dashboard/kpis", kpis)
	})
}

// load computes every figure it can. The returned error joins the
// failures; the view model is still usable.
func (h *Handler) load(r *http.Request) (KPIsVM, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "dashboard")
	defer cancel()
	now := h.now()

	var (
		wg          sync.WaitGroup
		d           kpi.Dashboard
		dashErr     error
		posts       []models.Post
		leads       []models.Lead
		competitors []models.Competitor
		readErrs    [3]error
	)
	wg.Add(4)
	go func() { defer wg.Done(); d, dashErr = h.kpis.Dashboard(ctx, now) }()
	go func() { defer wg.Done(); posts, readErrs[0] = h.posts.RecentPublished(ctx, 2) }()
	go func() { defer wg.Done(); leads, readErrs[1] = h.leads.Recent(ctx, 2) }()
	go func() { defer wg.Done(); competitors, readErrs[2] = h.competitors.Recent(ctx, 1) }()
	wg.Wait()

	vm := KPIsVM{
		Tiles:    tiles(d),
		Goals:    kpi.Goals(d, h.objectives(ctx, r)),
		Activity: kpi.RecentActivity(posts, leads, competitors, now, activityLimit),
		EmptyActivity: viewdata.Empty{
			Message: "Aucune activité pour le moment.",
			Hint:    "Publiez un post ou ajoutez un concurrent pour démarrer.",
		},
	}
	return vm, errors.Join(dashErr, readErrs[0], readErrs[1], readErrs[2])
}

func (h *Handler) objectives(ctx context.Context, r *http.Request) models.Objectives {
	if u, ok := auth.CurrentUser(r); ok {
		return h.prefs.Objectives(ctx, u.ID)
	}
	return models.DefaultObjectives()
}

func tiles(d kpi.Dashboard) []Tile {
	return []Tile{
		{Label: "Posts publiés", Value: format.Count(d.PublishedPosts), Hint: fmt.Sprintf("%d ce mois", d.PostsThisMonth)},
		{Label: "Leads générés", Value: format.Count(d.TotalLeads), Hint: fmt.Sprintf("%d ce mois", d.LeadsThisMonth)},
		{Label: "Concurrents suivis", Value: format.Count(d.Competitors)},
		{Label: "Engagement moyen", Value: fmt.Sprintf("%.1f", d.Engagement), Hint: "interactions par post concurrent ce mois"},
	}
}
