package viewdata

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataleads/internal/domain/models"
)

func TestBuildSidebar_CollapseAndActive(t *testing.T) {
	state := models.DefaultSidebarState()
	state[models.SectionLeads] = false
	state[models.SectionVeille] = false

	nav := BuildSidebar("/competitors/3/posts", state)

	byKey := map[string]NavSection{}
	for _, s := range nav {
		byKey[s.Key] = s
	}
	if byKey[models.SectionLeads].Expanded {
		t.Error("leads section should be collapsed")
	}
	if !byKey[models.SectionVeille].Expanded {
		t.Error("section of the current page should stay open")
	}
	if !byKey[models.SectionVeille].Items[0].Active {
		t.Error("competitors link should be active")
	}
	if !byKey[models.SectionPilotage].Expanded {
		t.Error("sections missing from the state default to expanded")
	}
}

func TestNoticeFromQuery(t *testing.T) {
	level, msg := NoticeFromQuery(httptest.NewRequest("GET", "/posts?error=busy", nil))
	if level != LevelError || msg != "Envoi déjà en cours" {
		t.Errorf("got %q %q", level, msg)
	}

	level, msg = NoticeFromQuery(httptest.NewRequest("GET", "/posts?ok=post_published", nil))
	if level != LevelSuccess || msg == "" {
		t.Errorf("got %q %q", level, msg)
	}

	if level, _ := NoticeFromQuery(httptest.NewRequest("GET", "/posts?ok=bogus", nil)); level != "" {
		t.Errorf("unknown ok code produced level %q", level)
	}
}

func TestWithParams(t *testing.T) {
	if got := WithError("/competitors?status=active", ErrRelay); got != "/competitors?error=relay&status=active" {
		t.Errorf("WithError() = %q", got)
	}
	if got := WithOK("/posts", OKTableCreated); got != "/posts?ok=table_created" {
		t.Errorf("WithOK() = %q", got)
	}
}
