// internal/app/features/objectives/objectives.go
package objectives

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/forms"
	"github.com/dalemusser/strataleads/internal/app/system/formutil"
	"github.com/dalemusser/strataleads/internal/app/system/kpi"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler edits the monthly targets.
type Handler struct {
	kpis   *kpi.Service
	prefs  *prefstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new objectives Handler.
func NewHandler(acc *remote.Accessor, prefs *prefstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		kpis:   kpi.New(kpi.RemoteSource{Accessor: acc}, logger),
		prefs:  prefs,
		errLog: errLog,
		logger: logger,
	}
}

type objectivesData struct {
	formutil.Base
	Form  forms.ObjectivesForm
	Goals []kpi.Goal
}

// Routes returns a chi.Router with objectives routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Post("/", h.save)
	return r
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "objectives.load")
	defer cancel()
	h.render(w, r, forms.ObjectivesFormFrom(h.prefs.Objectives(ctx, u.ID)), nil)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	f := forms.ParseObjectivesForm(r)
	if res := f.Check(); res.HasErrors() {
		h.render(w, r, f, func(d *objectivesData) { d.SetResult(res) })
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "objectives.save")
	defer cancel()
	if err := h.prefs.SaveObjectives(ctx, u.ID, f.Objectives()); err != nil {
		h.errLog.Log(r, "failed to save objectives", err)
		h.render(w, r, f, func(d *objectivesData) { d.SetError(viewdata.ErrorMessage(viewdata.ErrStore)) })
		return
	}
	http.Redirect(w, r, viewdata.WithOK("/objectives", viewdata.OKObjectivesSaved), http.StatusSeeOther)
}

// render shows the form next to the live progress against the targets
// the form currently holds.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, f forms.ObjectivesForm, edit func(*objectivesData)) {
	data := objectivesData{Base: formutil.NewBase(r, "Objectifs", "/dashboard"), Form: f}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "objectives.progress")
	defer cancel()
	d, err := h.kpis.Dashboard(ctx, time.Now())
	if err != nil {
		h.errLog.Log(r, "objectives progress incomplete", err)
	}
	target := f.Objectives()
	if !target.Valid() {
		target = h.prefs.Objectives(ctx, data.UserID)
	}
	data.Goals = kpi.Goals(d, target)

	if edit != nil {
		edit(&data)
	}
	templates.Render(w, r, "objectives/index", data)
}
