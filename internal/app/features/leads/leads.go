// internal/app/features/leads/leads.go
package leads

import (
	"cmp"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	leadstore "github.com/dalemusser/strataleads/internal/app/store/leads"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/kpi"
	"github.com/dalemusser/strataleads/internal/app/system/listview"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 25

// Handler serves the leads table.
type Handler struct {
	leads  *leadstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(acc *remote.Accessor, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		leads:  leadstore.New(acc),
		errLog: errLog,
		logger: logger,
		now:    time.Now,
	}
}

// Routes returns a chi.Router with lead routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/rows", h.rows)
	return r
}

// Row is one lead as rendered in the table.
type Row struct {
	models.Lead
	When string
}

func textOrder(f func(Row) string) func(a, b Row) int {
	return func(a, b Row) int { return cmp.Compare(text.Fold(f(a)), text.Fold(f(b))) }
}

func leadDate(r Row) time.Time {
	if r.Date != nil {
		return *r.Date
	}
	return time.Time{}
}

var listConfig = listview.Config[Row]{
	ID: func(r Row) string { return r.Key() },
	SearchFields: func(r Row) []string {
		return []string{r.Name, r.Headline, r.Company, r.ConnectionStatus, r.DMStatus}
	},
	Sorters: map[string]func(a, b Row) int{
		"name":       textOrder(func(r Row) string { return r.Name }),
		"headline":   textOrder(func(r Row) string { return r.Headline }),
		"company":    textOrder(func(r Row) string { return r.Company }),
		"connection": textOrder(func(r Row) string { return r.ConnectionStatus }),
		"dm":         textOrder(func(r Row) string { return r.DMStatus }),
		"date":       func(a, b Row) int { return leadDate(a).Compare(leadDate(b)) },
	},
	PageSize: pageSize,
}

// ListVM is the tiles-and-table fragment.
type ListVM struct {
	Tiles          kpi.LeadTiles
	Model          *listview.Model[Row]
	Page           listview.Page[Row]
	Empty          viewdata.Empty
	RefreshSeconds int
}

func (l ListVM) RefreshURL() string { return l.Model.PageURL("/leads/rows", l.Page.Page) }
func (l ListVM) SortURL(key string) string { return l.Model.SortURL("/leads", key) }
func (l ListVM) PrevURL() string { return l.Model.PageURL("/leads", l.Page.PrevPage) }
func (l ListVM) NextURL() string { return l.Model.PageURL("/leads", l.Page.NextPage) }

// PageVM is the leads page.
type PageVM struct {
	viewdata.BaseVM
	Search string
	List   ListVM
}

func (h *Handler) build(r *http.Request) (ListVM, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "leads.list")
	defer cancel()
	all, err := h.leads.List(ctx)

	now := h.now()
	rows := make([]Row, 0, len(all))
	for _, l := range all {
		rows = append(rows, Row{Lead: l, When: format.Relative(l.Date, now)})
	}

	params := listview.ParseParams(r)
	m := listview.New(listConfig, rows)
	m.Apply(params)

	vm := ListVM{
		Tiles:          kpi.CountLeads(all),
		Model:          m,
		Page:           m.VisiblePage(params.Page),
		RefreshSeconds: viewdata.New(r).RefreshSeconds,
		Empty: viewdata.Empty{
			Message: "Aucun lead pour le moment.",
			Hint:    "Les leads arrivent depuis les commentaires de vos posts lead magnet.",
		},
	}
	if len(all) > 0 {
		vm.Empty = viewdata.Empty{Message: "Aucun lead ne correspond à cette recherche.", Hint: "Essayez un nom, une entreprise ou un statut."}
	}
	return vm, err
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.build(r)
	vm := PageVM{BaseVM: viewdata.NewBaseVM(r, "Leads", "/dashboard"), Search: list.Model.Search, List: list}
	if err != nil {
		h.errLog.Log(r, "failed to list leads", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	templates.Render(w, r, "leads/index", vm)
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	list, err := h.build(r)
	if err != nil {
		h.errLog.Log(r, "failed to list leads", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "leads/list", list)
	})
}
