// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "StrataLeads"

// NavItem is one sidebar link.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// NavSection is a collapsible sidebar group.
type NavSection struct {
	Key      string
	Label    string
	Expanded bool
	Items    []NavItem
}

// BaseVM contains common fields for all view models.
// Embed it in feature view models:
//
//	type listData struct {
//	    viewdata.BaseVM
//	    Rows []models.Lead
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserID     string
	LoginID    string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Sidebar     []NavSection

	// RefreshSeconds drives hx-trigger="every Ns" on polled fragments.
	RefreshSeconds int

	// Transient notification decoded from ?ok= or ?error=.
	Notice      string
	NoticeLevel string

	CSRFToken string
}

// SidebarLoader returns the stored section state for a user.
type SidebarLoader func(ctx context.Context, userID string) models.SidebarState

var (
	sidebarLoader  SidebarLoader
	refreshSeconds = 60
)

// Init wires the sidebar state loader and the list refresh interval.
// Call once at startup from bootstrap.
func Init(loader SidebarLoader, refreshEvery int) {
	sidebarLoader = loader
	if refreshEvery > 0 {
		refreshSeconds = refreshEvery
	}
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}

// New creates a BaseVM without a title, for fragments and error pages.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:       SiteName,
		CurrentPath:    httpnav.CurrentPath(r),
		RefreshSeconds: refreshSeconds,
		CSRFToken:      csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = u.ID
		vm.LoginID = u.LoginID
		vm.UserName = u.Name

		state := models.DefaultSidebarState()
		if sidebarLoader != nil {
			state = sidebarLoader(r.Context(), u.ID)
		}
		vm.Sidebar = BuildSidebar(vm.CurrentPath, state)
	}

	vm.NoticeLevel, vm.Notice = NoticeFromQuery(r)
	return vm
}

// BuildSidebar returns the navigation tree with the active link and the
// collapse state applied.
func BuildSidebar(currentPath string, state models.SidebarState) []NavSection {
	sections := []NavSection{
		{Key: models.SectionPilotage, Label: "Pilotage", Items: []NavItem{
			{Label: "Tableau de bord", Href: "/dashboard"},
			{Label: "Objectifs", Href: "/objectives"},
		}},
		{Key: models.SectionContenu, Label: "Contenu", Items: []NavItem{
			{Label: "Création de contenu", Href: "/posts"},
			{Label: "Lead Magnet", Href: "/lead-magnet"},
		}},
		{Key: models.SectionVeille, Label: "Veille", Items: []NavItem{
			{Label: "Concurrents", Href: "/competitors"},
			{Label: "Veille", Href: "/content-watch"},
		}},
		{Key: models.SectionLeads, Label: "Leads", Items: []NavItem{
			{Label: "Leads", Href: "/leads"},
		}},
	}

	for i := range sections {
		expanded, ok := state[sections[i].Key]
		sections[i].Expanded = !ok || expanded
		for j := range sections[i].Items {
			href := sections[i].Items[j].Href
			if currentPath == href || strings.HasPrefix(currentPath, href+"/") {
				sections[i].Items[j].Active = true
				// the section holding the current page is always open
				sections[i].Expanded = true
			}
		}
	}
	return sections
}

// Empty is the data of the shared empty_state component: what is missing
// and what to do about it.
type Empty struct {
	Message string
	Hint    string
}
