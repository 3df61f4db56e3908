// internal/app/system/listview/listview.go
package listview

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
)

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// Config describes how a screen's rows are identified, searched and sorted.
type Config[T any] struct {
	ID           func(T) string
	SearchFields func(T) []string          // OR-matched, case and diacritic insensitive
	Sorters      map[string]func(a, b T) int // ascending comparison per column
	PageSize     int
}

// Model is the state of one list/table screen.
type Model[T any] struct {
	cfg Config[T]

	Rows     []T
	Loading  bool
	Search   string
	SortKey  string
	SortDir  Dir
	Selected string

	// Keep holds filter parameters carried on sort, page and refresh links.
	Keep url.Values
}

// New creates a Model holding rows in their fetched order.
func New[T any](cfg Config[T], rows []T) *Model[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	return &Model[T]{cfg: cfg, Rows: rows}
}

// Params are the list parameters carried on the query string.
type Params struct {
	Search   string
	Sort     string
	Dir      Dir
	Page     int
	Selected string
}

// ParseParams reads search, sort, dir, page and selected from the request.
func ParseParams(r *http.Request) Params {
	p := Params{
		Search:   strings.TrimSpace(query.Get(r, "search")),
		Sort:     query.Get(r, "sort"),
		Dir:      Desc,
		Page:     1,
		Selected: query.Get(r, "selected"),
	}
	if query.Get(r, "dir") == string(Asc) {
		p.Dir = Asc
	}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

// Apply sets search, sort and selection state from request params.
// Unknown sort keys are ignored so the fetched order is kept. A selected
// id that matches no row is dropped.
func (m *Model[T]) Apply(p Params) {
	m.Search = p.Search
	if _, ok := m.cfg.Sorters[p.Sort]; ok {
		m.SortKey = p.Sort
		m.SortDir = p.Dir
	}
	if p.Selected != "" && slices.ContainsFunc(m.Rows, func(row T) bool { return m.cfg.ID(row) == p.Selected }) {
		m.Select(p.Selected)
	}
}

// ToggleSort applies a click on column key: the same column flips
// direction, a new column starts descending.
func (m *Model[T]) ToggleSort(key string) {
	if key == m.SortKey && m.SortDir == Desc {
		m.SortDir = Asc
		return
	}
	m.SortKey, m.SortDir = key, Desc
}

// SortLink returns the query string a header link for key should carry:
// the state a click on key leads to.
func (m *Model[T]) SortLink(key string) string {
	next := *m
	next.ToggleSort(key)
	return next.values().Encode()
}

// SortURL is path with SortLink(key) as its query.
func (m *Model[T]) SortURL(path, key string) string {
	return path + "?" + m.SortLink(key)
}

// URL returns path carrying the current search, sort and filters, for
// refreshing the same view.
func (m *Model[T]) URL(path string) string {
	if q := m.values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// PageURL is URL with a page number.
func (m *Model[T]) PageURL(path string, page int) string {
	v := m.values()
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}

func (m *Model[T]) values() url.Values {
	v := url.Values{}
	for k, vals := range m.Keep {
		for _, x := range vals {
			if x != "" {
				v.Add(k, x)
			}
		}
	}
	if m.Search != "" {
		v.Set("search", m.Search)
	}
	if m.SortKey != "" {
		v.Set("sort", m.SortKey)
		v.Set("dir", string(m.SortDir))
	}
	if m.Selected != "" {
		v.Set("selected", m.Selected)
	}
	return v
}

// SortIndicator returns an arrow for the active column, empty otherwise.
func (m *Model[T]) SortIndicator(key string) string {
	if m.SortKey != key {
		return ""
	}
	if m.SortDir == Asc {
		return "▲"
	}
	return "▼"
}

// Select marks row id as the selected/detail row.
func (m *Model[T]) Select(id string) { m.Selected = id }

// IsSelected reports whether row id is the selected row.
func (m *Model[T]) IsSelected(id string) bool { return id != "" && m.Selected == id }

// Remove drops row id after a successful delete and clears the selection
// when it pointed at that row. It reports whether a row was removed.
func (m *Model[T]) Remove(id string) bool {
	n := len(m.Rows)
	m.Rows = slices.DeleteFunc(m.Rows, func(row T) bool { return m.cfg.ID(row) == id })
	if m.Selected == id {
		m.Selected = ""
	}
	return len(m.Rows) != n
}

func (m *Model[T]) matches(row T, folded string) bool {
	if folded == "" || m.cfg.SearchFields == nil {
		return true
	}
	for _, f := range m.cfg.SearchFields(row) {
		if strings.Contains(text.Fold(f), folded) {
			return true
		}
	}
	return false
}

// Visible returns the rows to render: search-filtered, then sorted when a
// sort key is set. Rows keep their fetched order otherwise.
func (m *Model[T]) Visible() []T {
	folded := text.Fold(strings.TrimSpace(m.Search))
	out := make([]T, 0, len(m.Rows))
	for _, row := range m.Rows {
		if m.matches(row, folded) {
			out = append(out, row)
		}
	}

	cmp, ok := m.cfg.Sorters[m.SortKey]
	if !ok {
		return out
	}
	if m.SortDir == Asc {
		slices.SortStableFunc(out, cmp)
	} else {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
	}
	return out
}

// Page is one window of visible rows plus navigation fields for templates.
type Page[T any] struct {
	Items      []T
	Page       int
	Total      int
	TotalPages int
	RangeStart int
	RangeEnd   int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// Paginate slices items into a 1-based page of size rows.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 25
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Page[T]{
		Items:      items[start:end],
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    end < total,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
	if total > 0 {
		p.RangeStart = start + 1
		p.RangeEnd = end
	}
	return p
}

// VisiblePage is Visible followed by Paginate with the configured size.
func (m *Model[T]) VisiblePage(page int) Page[T] {
	return Paginate(m.Visible(), page, m.cfg.PageSize)
}
