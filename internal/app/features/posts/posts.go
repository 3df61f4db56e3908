// internal/app/features/posts/posts.go
package posts

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/forms"
	"github.com/dalemusser/strataleads/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/listview"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/rowlock"
	"github.com/dalemusser/strataleads/internal/app/system/tasks"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Options tune post creation.
type Options struct {
	// AwaitAck keeps the request open until the content webhook answers.
	// When false the form closes at once and the relay runs in the
	// background.
	AwaitAck bool

	UploadMaxBytes int64
	WatchInterval  time.Duration
	WatchMaxRuns   int

	// Location is used to read datetime-local inputs.
	Location *time.Location
}

// Handler serves our own posts: the list, the publish and schedule
// actions, and the creation form.
type Handler struct {
	posts   *poststore.Store
	relay   *automation.Client
	files   storage.Store
	runner  *tasks.Runner
	guard   *rowlock.Guard
	tracker *Tracker
	opts    Options

	pages  *errorsfeature.Handler
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new posts Handler. runner owns the background
// relays and watches; guard is shared with the other write handlers.
func NewHandler(acc *remote.Accessor, relay *automation.Client, files storage.Store, runner *tasks.Runner, guard *rowlock.Guard, opts Options, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = 10 << 20
	}
	if opts.WatchInterval <= 0 {
		opts.WatchInterval = 2 * time.Second
	}
	if opts.WatchMaxRuns <= 0 {
		opts.WatchMaxRuns = 15
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Handler{
		posts:   poststore.New(acc),
		relay:   relay,
		files:   files,
		runner:  runner,
		guard:   guard,
		tracker: NewTracker(20),
		opts:    opts,
		pages:   errorsfeature.NewHandler(),
		errLog:  errLog,
		logger:  logger,
		now:     time.Now,
	}
}

// Routes returns a chi.Router with post routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/rows", h.rows)
	r.Get("/pending", h.pending)

	r.Get("/new", h.newForm)
	r.Post("/new", h.create)
	r.Post("/new/check", h.check)

	r.Post("/{id}/publish", h.publish)
	r.Post("/{id}/schedule", h.schedule)
	r.Post("/{id}/comments-table", h.commentsTable)
	return r
}

// Row is one post as rendered in the list.
type Row struct {
	models.Post
	Excerpt     string
	Created     string
	Scheduled   string
	MinSchedule string // earliest value of the schedule input
}

func (r Row) CanPublish() bool { return r.Status.CanTransitionTo(models.PostPublished) }
func (r Row) CanSchedule() bool { return r.Status.CanTransitionTo(models.PostScheduled) }

// NeedsCommentsTable reports whether the lead-magnet comment table can be
// created for this post.
func (r Row) NeedsCommentsTable() bool { return r.IsLeadMagnet && !r.TableExist }

func (h *Handler) newRow(p models.Post, now time.Time) Row {
	created := p.CreatedAt
	row := Row{
		Post:    p,
		Excerpt: htmlsanitize.Excerpt(p.Content, 160),
		Created: format.Relative(&created, now),
	}
	if row.CanSchedule() {
		row.MinSchedule = now.In(h.opts.Location).Format(forms.ScheduleLayout)
	}
	if p.ScheduledFor != nil {
		row.Scheduled = p.ScheduledFor.In(h.opts.Location).Format("02/01/2006 15:04")
	}
	return row
}

var listConfig = listview.Config[Row]{
	ID: func(r Row) string { return r.Key() },
	SearchFields: func(r Row) []string {
		return []string{r.Content, r.Caption, r.CTAKeyword}
	},
	Sorters: map[string]func(a, b Row) int{
		"created":   func(a, b Row) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"scheduled": func(a, b Row) int { return scheduledAt(a).Compare(scheduledAt(b)) },
	},
	PageSize: 50,
}

func scheduledAt(r Row) time.Time {
	if r.ScheduledFor != nil {
		return *r.ScheduledFor
	}
	return time.Time{}
}

// Tab is one status filter above the list.
type Tab struct {
	Label  string
	Href   string
	Count  int
	Active bool
}

func buildTabs(all []models.Post, status string) []Tab {
	counts := make(map[models.PostStatus]int)
	for _, p := range all {
		counts[p.Status]++
	}
	tabs := []Tab{{Label: "Tous", Href: "/posts", Count: len(all), Active: status == ""}}
	for _, s := range models.AllPostStatuses() {
		tabs = append(tabs, Tab{
			Label:  tabLabel(s),
			Href:   "/posts?" + url.Values{"status": {string(s)}}.Encode(),
			Count:  counts[s],
			Active: string(s) == status,
		})
	}
	return tabs
}

func tabLabel(s models.PostStatus) string {
	switch s {
	case models.PostDraft:
		return "Brouillons"
	case models.PostScheduled:
		return "Programmés"
	case models.PostPublished:
		return "Publiés"
	}
	return string(s)
}

// ListVM is the polled tabs-and-table fragment.
type ListVM struct {
	Tabs           []Tab
	Model          *listview.Model[Row]
	Page           listview.Page[Row]
	Empty          viewdata.Empty
	RefreshSeconds int
}

func (l ListVM) RefreshURL() string { return l.Model.URL("/posts/rows") }
func (l ListVM) SortURL(key string) string { return l.Model.SortURL("/posts", key) }
func (l ListVM) PrevURL() string { return l.Model.PageURL("/posts", l.Page.PrevPage) }
func (l ListVM) NextURL() string { return l.Model.PageURL("/posts", l.Page.NextPage) }

// ListPageVM is the posts page.
type ListPageVM struct {
	viewdata.BaseVM
	Search  string
	Status  string
	List    ListVM
	Pending PendingVM
}

func (h *Handler) loadList(r *http.Request) (ListVM, string, error) {
	status := query.Get(r, "status")
	if _, ok := models.ParsePostStatus(status); !ok {
		status = ""
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "posts.list")
	defer cancel()
	all, err := h.posts.List(ctx, "")

	now := h.now()
	rows := make([]Row, 0, len(all))
	for _, p := range all {
		if status == "" || string(p.Status) == status {
			rows = append(rows, h.newRow(p, now))
		}
	}

	params := listview.ParseParams(r)
	m := listview.New(listConfig, rows)
	m.Apply(params)
	m.Keep = url.Values{"status": {status}}

	vm := ListVM{
		Tabs:           buildTabs(all, status),
		Model:          m,
		Page:           m.VisiblePage(params.Page),
		RefreshSeconds: viewdata.New(r).RefreshSeconds,
		Empty: viewdata.Empty{
			Message: "Aucun post pour le moment.",
			Hint:    "Créez votre premier post avec le bouton « Nouveau post ».",
		},
	}
	if len(all) > 0 {
		vm.Empty = viewdata.Empty{Message: "Aucun post dans cette catégorie.", Hint: "Changez d'onglet ou de recherche."}
	}
	return vm, status, err
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, status, err := h.loadList(r)
	vm := ListPageVM{
		BaseVM:  viewdata.NewBaseVM(r, "Création de contenu", "/dashboard"),
		Search:  list.Model.Search,
		Status:  status,
		List:    list,
		Pending: h.pendingVM(r),
	}
	if err != nil {
		h.errLog.Log(r, "failed to list posts", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	templates.Render(w, r, "posts/index", vm)
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	list, _, err := h.loadList(r)
	if err != nil {
		h.errLog.Log(r, "failed to list posts", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "posts/list", list)
	})
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
