// internal/app/features/contentwatch/contentwatch.go
package contentwatch

import (
	"cmp"
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	cpoststore "github.com/dalemusser/strataleads/internal/app/store/competitorposts"
	"github.com/dalemusser/strataleads/internal/app/system/etag"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/listview"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// recentLimit bounds the posts read for the watch screen.
const recentLimit = 500

// Handler serves the content watch screen: competitor posts across all
// tracked profiles.
type Handler struct {
	competitors *competitorstore.Store
	posts       *cpoststore.Store
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
}

func NewHandler(acc *remote.Accessor, loc *time.Location, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		competitors: competitorstore.New(acc),
		posts:       cpoststore.New(acc),
		errLog:      errLog,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
}

// Routes returns a chi.Router with content watch routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Get("/rows", h.rows)
	return r
}

// Row is one post with its competitor and formatted counts.
type Row struct {
	models.CompetitorPost
	CompetitorName string
	Likes          string
	Comments       string
	Shares         string
	Age            string
}

// HashtagLine joins the hashtags for display.
func (r Row) HashtagLine() string {
	if len(r.Hashtags) == 0 {
		return ""
	}
	return "#" + strings.Join(r.Hashtags, " #")
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func postDate(r Row) time.Time {
	if r.PostDate != nil {
		return *r.PostDate
	}
	return r.CreatedAt
}

var listConfig = listview.Config[Row]{
	ID: func(r Row) string { return r.Key() },
	SearchFields: func(r Row) []string {
		return append([]string{r.Caption, r.CompetitorName}, r.Hashtags...)
	},
	Sorters: map[string]func(a, b Row) int{
		"likes":    func(a, b Row) int { return cmp.Compare(deref(a.CompetitorPost.Likes), deref(b.CompetitorPost.Likes)) },
		"comments": func(a, b Row) int { return cmp.Compare(deref(a.CompetitorPost.Comments), deref(b.CompetitorPost.Comments)) },
		"shares":   func(a, b Row) int { return cmp.Compare(deref(a.CompetitorPost.Shares), deref(b.CompetitorPost.Shares)) },
		"date":     func(a, b Row) int { return postDate(a).Compare(postDate(b)) },
	},
	PageSize: 50,
}

// ListVM is the table fragment.
type ListVM struct {
	Model          *listview.Model[Row]
	Page           listview.Page[Row]
	Empty          viewdata.Empty
	RefreshSeconds int
}

func (l ListVM) RefreshURL() string { return l.Model.URL("/content-watch/rows") }
func (l ListVM) SortURL(key string) string { return l.Model.SortURL("/content-watch", key) }
func (l ListVM) PrevURL() string { return l.Model.PageURL("/content-watch", l.Page.PrevPage) }
func (l ListVM) NextURL() string { return l.Model.PageURL("/content-watch", l.Page.NextPage) }

// PageVM is the full content watch page.
type PageVM struct {
	viewdata.BaseVM
	Search string
	List   ListVM
}

// load reads posts and competitors concurrently and joins them by id.
func (h *Handler) load(ctx context.Context) ([]Row, error) {
	var (
		wg             sync.WaitGroup
		posts          []models.CompetitorPost
		comps          []models.Competitor
		postErr, cErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		posts, postErr = h.posts.ListRecent(ctx, recentLimit)
	}()
	go func() {
		defer wg.Done()
		comps, cErr = h.competitors.List(ctx, "")
	}()
	wg.Wait()
	if postErr != nil {
		return nil, postErr
	}

	names := make(map[int64]string, len(comps))
	for _, c := range comps {
		names[c.ID] = c.Name
	}
	now := h.now()
	rows := make([]Row, 0, len(posts))
	for _, p := range posts {
		name, ok := names[p.CompetitorID]
		if !ok {
			name = "Concurrent inconnu"
		}
		rows = append(rows, Row{
			CompetitorPost: p,
			CompetitorName: name,
			Likes:          format.CountPtr(p.Likes),
			Comments:       format.CountPtr(p.Comments),
			Shares:         format.CountPtr(p.Shares),
			Age:            format.PostAge(p.PostDate, now, h.loc),
		})
	}
	return rows, cErr
}

func (h *Handler) build(r *http.Request) (ListVM, error) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "contentwatch.load")
	defer cancel()
	rows, err := h.load(ctx)

	params := listview.ParseParams(r)
	m := listview.New(listConfig, rows)
	m.Apply(params)

	vm := ListVM{
		Model:          m,
		Page:           m.VisiblePage(params.Page),
		RefreshSeconds: viewdata.New(r).RefreshSeconds,
		Empty: viewdata.Empty{
			Message: "Aucun post de concurrent pour le moment.",
			Hint:    "Ajoutez des concurrents pour alimenter la veille.",
		},
	}
	if len(rows) > 0 {
		vm.Empty = viewdata.Empty{Message: "Aucun post ne correspond à cette recherche.", Hint: "Essayez un autre mot-clé ou hashtag."}
	}
	return vm, err
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	list, err := h.build(r)
	vm := PageVM{BaseVM: viewdata.NewBaseVM(r, "Veille", "/dashboard"), Search: list.Model.Search, List: list}
	if err != nil {
		h.errLog.Log(r, "failed to load content watch", err)
		vm.NoticeLevel, vm.Notice = viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore)
	}
	templates.Render(w, r, "contentwatch/index", vm)
}

func (h *Handler) rows(w http.ResponseWriter, r *http.Request) {
	list, err := h.build(r)
	if err != nil && len(list.Model.Rows) == 0 {
		h.errLog.Log(r, "failed to load content watch", err)
		jsonutil.Notify(w, viewdata.LevelError, viewdata.ErrorMessage(viewdata.ErrStore))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusOK)
		return
	}
	etag.Render(w, r, func(w http.ResponseWriter) {
		templates.RenderSnippet(w, "contentwatch/list", list)
	})
}
