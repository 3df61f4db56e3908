// internal/app/features/competitors/competitors.go
package competitors

import (
	"cmp"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	cpoststore "github.com/dalemusser/strataleads/internal/app/store/competitorposts"
	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/forms"
	"github.com/dalemusser/strataleads/internal/app/system/formutil"
	"github.com/dalemusser/strataleads/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/kpi"
	"github.com/dalemusser/strataleads/internal/app/system/listview"
	"github.com/dalemusser/strataleads/internal/app/system/notify"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/rowlock"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the competitor screens.
type Handler struct {
	competitors *competitorstore.Store
	posts       *cpoststore.Store
	relay       *automation.Client
	guard       *rowlock.Guard
	pages       *errorsfeature.Handler
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewHandler creates a new competitors Handler. guard is shared with the
// other write handlers; loc is the zone post dates are shown in.
func NewHandler(acc *remote.Accessor, relay *automation.Client, guard *rowlock.Guard, loc *time.Location, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		competitors: competitorstore.New(acc),
		posts:       cpoststore.New(acc),
		relay:       relay,
		guard:       guard,
		pages:       errorsfeature.NewHandler(),
		errLog:      errLog,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
}

// Routes returns a chi.Router with competitor routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Get("/rows", h.rows)
	r.Post("/{id}/delete", h.delete)
	r.Post("/{id}/status", h.setStatus)
	r.Post("/{id}/notes", h.setNotes)
	r.Get("/{id}/posts", h.showPosts)
	r.Post("/{id}/posts", h.addPost)
	return r
}

// StatusOption is one entry of a status select.
type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

func statusOptions(current string, withAll bool) []StatusOption {
	var out []StatusOption
	if withAll {
		out = append(out, StatusOption{Value: "", Label: "Tous les statuts", Selected: current == ""})
	}
	for _, s := range models.AllCompetitorStatuses() {
		out = append(out, StatusOption{Value: string(s), Label: s.Label(), Selected: string(s) == current})
	}
	return out
}

// Row is one competitor as rendered in the list.
type Row struct {
	models.Competitor
	Followers   string
	Connections string
	Added       string
	Selected    bool // the competitor whose posts page the user came back from
}

// StatusOptions feeds the per-row status select.
func (r Row) StatusOptions() []StatusOption { return statusOptions(string(r.Status), false) }

func newRow(c models.Competitor, now time.Time) Row {
	added := c.CreatedAt
	return Row{
		Competitor:  c,
		Followers:   format.CountPtr(c.FollowerCount),
		Connections: format.CountPtr(c.ConnectionCount),
		Added:       format.Relative(&added, now),
	}
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

var listConfig = listview.Config[Row]{
	ID: func(r Row) string { return r.Key() },
	SearchFields: func(r Row) []string {
		return []string{r.Name, r.Headline, r.Company, r.Industry, r.Location}
	},
	Sorters: map[string]func(a, b Row) int{
		"name":      func(a, b Row) int { return cmp.Compare(text.Fold(a.Name), text.Fold(b.Name)) },
		"followers": func(a, b Row) int { return cmp.Compare(deref(a.FollowerCount), deref(b.FollowerCount)) },
		"added":     func(a, b Row) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	PageSize: 100,
}

// ListVM is the polled tiles-and-table part of the page.
type ListVM struct {
	Tiles          kpi.CompetitorTiles
	Model          *listview.Model[Row]
	Rows           []Row
	Empty          viewdata.Empty
	RefreshSeconds int
}

// RefreshURL reloads the list with the same filters.
func (l ListVM) RefreshURL() string { return l.Model.URL("/competitors/rows") }

// SortURL is the header link for column key.
func (l ListVM) SortURL(key string) string { return l.Model.SortURL("/competitors", key) }

// ListPageVM is the competitors page.
type ListPageVM struct {
	formutil.Base
	Form     forms.CompetitorForm
	Search   string
	Statuses []StatusOption
	List     ListVM
}

// loadList reads every competitor once: the tiles count all of them and
// the table shows the ones matching the status filter and search.
func (h *Handler) loadList(r *http.Request) (ListVM, string, error) {
	status := query.Get(r, "status")
	if !models.IsValidCompetitorStatus(status) {
		status = ""
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.list")
	defer cancel()
	all, err := h.competitors.List(ctx, "")

	now := h.now()
	rows := make([]Row, 0, len(all))
	for _, c := range all {
		if status == "" || string(c.Status) == status {
			rows = append(rows, newRow(c, now))
		}
	}

	m := listview.New(listConfig, rows)
	m.Apply(listview.ParseParams(r))
	m.Keep = url.Values{"status": {status}}

	vm := ListVM{
		Tiles:          kpi.CountCompetitors(all),
		Model:          m,
		RefreshSeconds: viewdata.New(r).RefreshSeconds,
	}
	vm.derive()
	return vm, status, err
}

// derive recomputes the rendered rows and the empty state from the model.
func (l *ListVM) derive() {
	l.Rows = l.Model.Visible()
	for i := range l.Rows {
		l.Rows[i].Selected = l.Model.IsSelected(l.Rows[i].Key())
	}
	l.Empty = viewdata.Empty{
		Message: "Aucun concurrent trouvé.",
		Hint:    "Ajoutez un profil LinkedIn avec le formulaire ci-dessus.",
	}
	if l.Tiles.Total > 0 {
		l.Empty = viewdata.Empty{Message: "Aucun concurrent ne correspond à ces filtres.", Hint: "Modifiez la recherche ou le statut."}
	}
}

// drop takes a deleted competitor out of an already loaded list, so the
// fragment answering the delete needs no second read.
func (l *ListVM) drop(key string) {
	for _, row := range l.Model.Rows {
		if row.Key() == key {
			l.Tiles.Remove(row.Status)
			break
		}
	}
	l.Model.Remove(key)
	l.derive()
}

// listRequest returns r carrying the query string of the page that sent
// it, so an htmx action re-renders the list with the filters on screen.
func listRequest(r *http.Request) *http.Request {
	u, err := url.Parse(r.Header.Get("HX-Current-URL"))
	if err != nil || u.RawQuery == "" {
		return r
	}
	r2 := r.Clone(r.Context())
	r2.URL.RawQuery = u.RawQuery
	return r2
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, forms.CompetitorForm{}, nil)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, f forms.CompetitorForm, edit func(*ListPageVM)) {
	list, status, err := h.loadList(r)
	vm := ListPageVM{
		Base:     formutil.NewBase(r, "Concurrents", "/dashboard"),
		Form:     f,
		Search:   list.Model.Search,
		Statuses: statusOptions(status, true),
		List:     list,
	}
	if err != nil {
		h.errLog.Log(r, "failed to list competitors", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	if edit != nil {
		edit(&vm)
	}
	templates.Render(w, r, "competitors/index", vm)
}

// rows is the polled and searched fragment.
func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	list, _, err := h.loadList(r)
	if err != nil {
		h.errLog.Log(r, "failed to list competitors", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "competitors/list", list)
	})
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// add relays a profile URL to the ingestion workflow. The competitor row
// is written by the workflow, so the list only changes on a later refresh.
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	f := forms.ParseCompetitorForm(r)
	if res := f.Check(); res.HasErrors() {
		h.renderPage(w, r, f, func(vm *ListPageVM) { vm.SetResult(res) })
		return
	}

	release, ok := h.guard.TryAcquire("competitor-add:" + f.URL)
	if !ok {
		notify.Busy(w, r)
		return
	}
	defer release()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.logger, "competitors.add")
	defer cancel()
	if _, err := h.relay.AddCompetitor(ctx, f.URL); err != nil {
		h.errLog.Log(r, "competitor relay failed", err, zap.String("url", f.URL))
		h.renderPage(w, r, f, func(vm *ListPageVM) { vm.SetError(viewdata.ErrorMessage(viewdata.ErrRelay)) })
		return
	}
	http.Redirect(w, r, viewdata.WithOK("/competitors", viewdata.OKCompetitorRequested), http.StatusSeeOther)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	key := strconv.FormatInt(id, 10)
	release, ok := h.guard.TryAcquire("competitor:" + key)
	if !ok {
		notify.Busy(w, r)
		return
	}
	defer release()

	// htmx gets the list back; it is read before the write and the
	// deleted row is dropped from it afterwards.
	var (
		list    ListVM
		listErr error
	)
	if notify.IsHTMX(r) {
		list, _, listErr = h.loadList(listRequest(r))
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.delete")
	defer cancel()
	if err := h.competitors.Delete(ctx, id); err != nil {
		h.errLog.Log(r, "failed to delete competitor", err, zap.Int64("competitor_id", id))
		notify.Failure(w, r, "/competitors", storeCode(err))
		return
	}
	h.logger.Info("competitor deleted", zap.Int64("competitor_id", id))

	if !notify.IsHTMX(r) {
		notify.Success(w, r, "/competitors", viewdata.OKCompetitorDeleted)
		return
	}
	if listErr != nil {
		h.errLog.Log(r, "failed to list competitors", listErr)
		w.Header().Set("HX-Retarget", "#competitor-"+key)
		w.Header().Set("HX-Reswap", "delete")
		notify.Success(w, r, "/competitors", viewdata.OKCompetitorDeleted)
		return
	}
	list.drop(key)
	jsonutil.Notify(w, viewdata.LevelSuccess, viewdata.SuccessMessage(viewdata.OKCompetitorDeleted))
	templates.RenderSnippet(w, "competitors/list", list)
}

// setStatus changes the status and answers htmx with the updated row.
func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	status := r.FormValue("status")
	if !models.IsValidCompetitorStatus(status) {
		notify.Failure(w, r, "/competitors", viewdata.ErrInvalid)
		return
	}
	release, ok := h.guard.TryAcquire("competitor:" + strconv.FormatInt(id, 10))
	if !ok {
		notify.Busy(w, r)
		return
	}
	defer release()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.status")
	defer cancel()
	c, err := h.competitors.SetStatus(ctx, id, models.CompetitorStatus(status))
	if err != nil {
		h.errLog.Log(r, "failed to change competitor status", err, zap.Int64("competitor_id", id))
		notify.Failure(w, r, "/competitors", storeCode(err))
		return
	}
	if !notify.IsHTMX(r) {
		http.Redirect(w, r, viewdata.WithOK("/competitors", viewdata.OKStatusChanged), http.StatusSeeOther)
		return
	}
	jsonutil.Notify(w, viewdata.LevelSuccess, viewdata.SuccessMessage(viewdata.OKStatusChanged))
	templates.RenderSnippet(w, "competitors/row", newRow(c, h.now()))
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	back := "/competitors/" + strconv.FormatInt(id, 10) + "/posts"
	notes := htmlsanitize.Strip(r.FormValue("notes"))

	release, ok := h.guard.TryAcquire("competitor:" + strconv.FormatInt(id, 10))
	if !ok {
		notify.Busy(w, r)
		return
	}
	defer release()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.notes")
	defer cancel()
	if _, err := h.competitors.SetNotes(ctx, id, notes); err != nil {
		h.errLog.Log(r, "failed to save competitor notes", err, zap.Int64("competitor_id", id))
		http.Redirect(w, r, viewdata.WithError(back, storeCode(err)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, viewdata.WithOK(back, viewdata.OKNotesSaved), http.StatusSeeOther)
}

// PostRow is one scraped post on the competitor detail page.
type PostRow struct {
	models.CompetitorPost
	Likes    string
	Comments string
	Shares   string
	Age      string
}

// PostsPageVM is the competitor detail page.
type PostsPageVM struct {
	formutil.Base
	Competitor Row
	Posts      []PostRow
	Form       forms.CompetitorPostForm
	Empty      viewdata.Empty
}

func (h *Handler) showPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	h.renderPosts(w, r, id, forms.NewCompetitorPostForm(id), nil)
}

func (h *Handler) renderPosts(w http.ResponseWriter, r *http.Request, id int64, f forms.CompetitorPostForm, edit func(*PostsPageVM)) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.posts")
	defer cancel()

	c, err := h.competitors.Get(ctx, id)
	if remote.IsNotFound(err) {
		h.pages.NotFound(w, r)
		return
	}
	vm := PostsPageVM{
		Base: formutil.NewBase(r, c.Name, "/competitors?selected="+strconv.FormatInt(id, 10)),
		Form: f,
		Empty: viewdata.Empty{
			Message: "Aucun post collecté pour ce concurrent.",
			Hint:    "Les posts apparaissent après le passage du scraper, ou ajoutez-en un à la main.",
		},
	}
	if err != nil {
		h.errLog.Log(r, "failed to load competitor", err, zap.Int64("competitor_id", id))
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
		templates.Render(w, r, "competitors/posts", vm)
		return
	}

	now := h.now()
	vm.Competitor = newRow(c, now)
	posts, err := h.posts.ListByCompetitor(ctx, id)
	if err != nil {
		h.errLog.Log(r, "failed to list competitor posts", err, zap.Int64("competitor_id", id))
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	for _, p := range posts {
		vm.Posts = append(vm.Posts, PostRow{
			CompetitorPost: p,
			Likes:          format.CountPtr(p.Likes),
			Comments:       format.CountPtr(p.Comments),
			Shares:         format.CountPtr(p.Shares),
			Age:            format.PostAge(p.PostDate, now, h.loc),
		})
	}
	if edit != nil {
		edit(&vm)
	}
	templates.Render(w, r, "competitors/posts", vm)
}

// addPost inserts a post by hand, for profiles the scraper cannot read.
func (h *Handler) addPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.pages.NotFound(w, r)
		return
	}
	f := forms.ParseCompetitorPostForm(r)
	f.CompetitorID = strconv.FormatInt(id, 10)
	if res := f.Check(); res.HasErrors() {
		h.renderPosts(w, r, id, f, func(vm *PostsPageVM) { vm.SetResult(res) })
		return
	}

	release, ok := h.guard.TryAcquire("competitor-post-form:" + f.Token)
	if !ok {
		notify.Busy(w, r)
		return
	}
	defer release()

	back := "/competitors/" + f.CompetitorID + "/posts"
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "competitors.addPost")
	defer cancel()
	_, err := h.posts.Insert(ctx, models.CompetitorPost{
		CompetitorID: id,
		Caption:      htmlsanitize.Strip(f.Caption),
		PostURL:      f.PostURL,
		Likes:        inputval.ParseCount(f.Likes),
		Comments:     inputval.ParseCount(f.Comments),
		Shares:       inputval.ParseCount(f.Shares),
	})
	switch {
	case errors.Is(err, cpoststore.ErrUnknownCompetitor):
		h.pages.NotFound(w, r)
	case err != nil:
		h.errLog.Log(r, "failed to insert competitor post", err, zap.Int64("competitor_id", id))
		h.renderPosts(w, r, id, f, func(vm *PostsPageVM) { vm.SetError(viewdata.ErrorMessage(viewdata.ErrStore)) })
	default:
		http.Redirect(w, r, viewdata.WithOK(back, viewdata.OKPostAdded), http.StatusSeeOther)
	}
}

// storeCode maps a store error to a notice code.
func storeCode(err error) string {
	if remote.IsNotFound(err) {
		return viewdata.ErrNotFound
	}
	return viewdata.ErrStore
}
