// internal/app/features/leadmagnet/leadmagnet.go
package leadmagnet

import (
	"net/http"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/kpi"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the lead-magnet breakdown: comment counts per post with
// a comment table, and their totals.
type Handler struct {
	posts  *poststore.Store
	kpis   *kpi.Service
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

func NewHandler(acc *remote.Accessor, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		posts:  poststore.New(acc),
		kpis:   kpi.New(kpi.RemoteSource{Accessor: acc}, logger),
		errLog: errLog,
		logger: logger,
	}
}

// Routes returns a chi.Router with lead-magnet routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Get("/rows", h.rows)
	return r
}

// Rates are shares of all comments, for the progress bars.
type Rates struct {
	DM         float64
	Connection float64
}

func (r Rates) DMLabel() string         { return format.Percent(r.DM) }
func (r Rates) ConnectionLabel() string { return format.Percent(r.Connection) }

// Row is one post line of the table.
type Row struct {
	kpi.PostCounts
	Rates Rates
}

// TableVM is the polled totals-and-table fragment.
type TableVM struct {
	Totals         kpi.CommentCounts
	Rates          Rates
	Rows           []Row
	Failed         int
	Empty          viewdata.Empty
	RefreshSeconds int
}

func (TableVM) RefreshURL() string { return "/lead-magnet/rows" }

// PageVM is the lead-magnet page.
type PageVM struct {
	viewdata.BaseVM
	Table TableVM
}

func rates(c kpi.CommentCounts) Rates {
	return Rates{
		DM:         format.GoalPercentage(c.ReceivedDM, c.Total),
		Connection: format.GoalPercentage(c.ConnectionRequest, c.Total),
	}
}

func (h *Handler) build(r *http.Request) (TableVM, error) {
	vm := TableVM{
		RefreshSeconds: viewdata.New(r).RefreshSeconds,
		Empty: viewdata.Empty{
			Message: "Aucun post lead magnet avec table de commentaires.",
			Hint:    "Créez la table depuis la liste des posts pour suivre les commentaires.",
		},
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "leadmagnet.load")
	defer cancel()
	posts, err := h.posts.LeadMagnets(ctx)
	if err != nil {
		return vm, err
	}

	lm := h.kpis.LeadMagnet(ctx, posts)
	vm.Totals = lm.Totals
	vm.Rates = rates(lm.Totals)
	vm.Failed = lm.Failed
	vm.Rows = make([]Row, 0, len(lm.Posts))
	for _, p := range lm.Posts {
		vm.Rows = append(vm.Rows, Row{PostCounts: p, Rates: rates(p.Counts)})
	}
	return vm, nil
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	table, err := h.build(r)
	vm := PageVM{BaseVM: viewdata.NewBaseVM(r, "Lead magnet", "/dashboard"), Table: table}
	if err != nil {
		h.errLog.Log(r, "failed to load lead magnet posts", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	templates.Render(w, r, "leadmagnet/index", vm)
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	table, err := h.build(r)
	if err != nil {
		h.errLog.Log(r, "failed to load lead magnet posts", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "leadmagnet/table", table)
	})
}
