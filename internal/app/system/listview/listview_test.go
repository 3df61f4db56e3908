package listview

import (
	"cmp"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"testing"
)

type person struct {
	ID       int
	Name     string
	Headline string
	Company  string
	Likes    int
}

func personConfig() Config[person] {
	return Config[person]{
		ID: func(p person) string { return strconv.Itoa(p.ID) },
		SearchFields: func(p person) []string {
			return []string{p.Name, p.Headline, p.Company}
		},
		Sorters: map[string]func(a, b person) int{
			"name":  func(a, b person) int { return cmp.Compare(a.Name, b.Name) },
			"likes": func(a, b person) int { return cmp.Compare(a.Likes, b.Likes) },
		},
		PageSize: 2,
	}
}

func people() []person {
	return []person{
		{ID: 1, Name: "Amélie Durand", Headline: "Growth", Company: "Acme", Likes: 10},
		{ID: 2, Name: "Bruno Petit", Headline: "Sales lead", Company: "Globex", Likes: 30},
		{ID: 3, Name: "Chloé Martin", Headline: "CTO", Company: "Initech", Likes: 20},
	}
}

func ids(rows []person) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestVisible_NoSearchKeepsFetchedOrder(t *testing.T) {
	m := New(personConfig(), people())
	if got := ids(m.Visible()); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Visible() = %v, want fetched order", got)
	}
}

func TestVisible_SearchMatchesAnyField(t *testing.T) {
	tests := []struct {
		term string
		want []int
	}{
		{"amelie", []int{1}},   // diacritics folded
		{"GLOBEX", []int{2}},   // case insensitive
		{"cto", []int{3}},      // headline field
		{"e", []int{1, 2, 3}},  // substring in every row
		{"zzz", []int{}},       // no match
		{"  petit ", []int{2}}, // trimmed
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			m := New(personConfig(), people())
			m.Search = tt.term
			if got := ids(m.Visible()); !slices.Equal(got, tt.want) {
				t.Errorf("Visible(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestToggleSort(t *testing.T) {
	m := New(personConfig(), people())

	m.ToggleSort("likes")
	if m.SortKey != "likes" || m.SortDir != Desc {
		t.Fatalf("first click = %s %s, want likes desc", m.SortKey, m.SortDir)
	}
	first := ids(m.Visible())
	if !slices.Equal(first, []int{2, 3, 1}) {
		t.Errorf("likes desc = %v", first)
	}

	m.ToggleSort("likes")
	if m.SortDir != Asc {
		t.Errorf("second click dir = %s, want asc", m.SortDir)
	}
	second := ids(m.Visible())
	reversed := slices.Clone(first)
	slices.Reverse(reversed)
	if !slices.Equal(second, reversed) {
		t.Errorf("likes asc = %v, want %v", second, reversed)
	}

	m.ToggleSort("likes")
	if got := ids(m.Visible()); !slices.Equal(got, first) {
		t.Errorf("third click = %v, want first-click order %v", got, first)
	}

	m.ToggleSort("name")
	if m.SortKey != "name" || m.SortDir != Desc {
		t.Errorf("new column = %s %s, want name desc", m.SortKey, m.SortDir)
	}
}

func TestRemove_ClearsSelection(t *testing.T) {
	m := New(personConfig(), people())
	m.Select("2")

	if !m.Remove("2") {
		t.Fatal("Remove(2) = false, want true")
	}
	if m.Selected != "" {
		t.Errorf("Selected = %q, want empty after deleting the selected row", m.Selected)
	}
	for _, r := range m.Visible() {
		if r.ID == 2 {
			t.Error("deleted row still visible")
		}
	}

	m.Select("1")
	m.Remove("3")
	if m.Selected != "1" {
		t.Errorf("Selected = %q, want 1 kept when another row is deleted", m.Selected)
	}
	if m.Remove("99") {
		t.Error("Remove(99) = true for a missing row")
	}
}

func TestApply_Selected(t *testing.T) {
	r := httptest.NewRequest("GET", "/competitors?selected=2&status=active", nil)
	m := New(personConfig(), people())
	m.Apply(ParseParams(r))
	if !m.IsSelected("2") || m.IsSelected("1") {
		t.Fatalf("Selected = %q, want 2", m.Selected)
	}
	if got := m.URL("/competitors/rows"); got != "/competitors/rows?selected=2" {
		t.Errorf("URL() = %q, want selection carried", got)
	}

	m.Remove("2")
	if got := m.URL("/competitors/rows"); got != "/competitors/rows" {
		t.Errorf("URL() after delete = %q, want selection gone", got)
	}

	stale := New(personConfig(), people())
	stale.Apply(Params{Selected: "99"})
	if stale.Selected != "" {
		t.Errorf("Selected = %q for an id with no row", stale.Selected)
	}
}

func TestApplyAndSortLink(t *testing.T) {
	r := httptest.NewRequest("GET", "/leads?search=acme&sort=name&dir=asc&page=2", nil)
	p := ParseParams(r)
	if p.Search != "acme" || p.Sort != "name" || p.Dir != Asc || p.Page != 2 {
		t.Fatalf("ParseParams = %+v", p)
	}

	m := New(personConfig(), people())
	m.Apply(p)
	if m.SortKey != "name" || m.SortDir != Asc {
		t.Errorf("Apply sort = %s %s", m.SortKey, m.SortDir)
	}
	if got := m.SortLink("name"); got != "dir=desc&search=acme&sort=name" {
		t.Errorf("SortLink(name) = %q", got)
	}
	if m.SortDir != Asc {
		t.Errorf("SortLink changed the model: dir = %s", m.SortDir)
	}
	if got := m.SortIndicator("name"); got != "▲" {
		t.Errorf("SortIndicator(name) = %q", got)
	}

	m.Apply(Params{Sort: "unknown", Dir: Asc})
	if m.SortKey != "name" {
		t.Errorf("unknown sort key changed SortKey to %q", m.SortKey)
	}
}

func TestParseParams_Defaults(t *testing.T) {
	p := ParseParams(httptest.NewRequest("GET", "/leads?page=-3", nil))
	if p.Dir != Desc || p.Page != 1 || p.Sort != "" {
		t.Errorf("ParseParams defaults = %+v", p)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	if !slices.Equal(p.Items, []int{3, 4}) || p.RangeStart != 3 || p.RangeEnd != 4 || !p.HasPrev || !p.HasNext {
		t.Errorf("page 2 = %+v", p)
	}

	last := Paginate(items, 9, 2)
	if last.Page != 3 || !slices.Equal(last.Items, []int{5}) || last.HasNext {
		t.Errorf("clamped last page = %+v", last)
	}

	empty := Paginate([]int{}, 1, 10)
	if empty.Total != 0 || empty.RangeStart != 0 || empty.TotalPages != 1 || len(empty.Items) != 0 {
		t.Errorf("empty page = %+v", empty)
	}
}

func TestVisiblePage(t *testing.T) {
	m := New(personConfig(), people())
	p := m.VisiblePage(2)
	if p.Total != 3 || len(p.Items) != 1 || p.Items[0].ID != 3 {
		t.Errorf("VisiblePage(2) = %+v", p)
	}
}

func TestURLsCarryFilters(t *testing.T) {
	m := New(personConfig(), people())
	m.Keep = url.Values{"status": {"active"}, "empty": {""}}
	if got := m.URL("/competitors/rows"); got != "/competitors/rows?status=active" {
		t.Errorf("URL() = %q", got)
	}

	m.Apply(Params{Search: "al", Sort: "likes", Dir: Desc})
	if got := m.SortURL("/competitors", "likes"); got != "/competitors?dir=asc&search=al&sort=likes&status=active" {
		t.Errorf("SortURL() = %q", got)
	}
	if got := m.PageURL("/leads", 3); got != "/leads?dir=desc&page=3&search=al&sort=likes&status=active" {
		t.Errorf("PageURL() = %q", got)
	}
	if got := New(personConfig(), nil).URL("/leads/rows"); got != "/leads/rows" {
		t.Errorf("bare URL() = %q", got)
	}
}
