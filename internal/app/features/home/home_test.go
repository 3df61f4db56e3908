package home

import (
	"net/http"
	"testing"

	"github.com/dalemusser/strataleads/internal/testutil"
)

func TestIndex_SignedOut(t *testing.T) {
	testutil.MustBootTemplates(t)

	req := testutil.WithCSRFToken(testutil.NewRequest(http.MethodGet, "/"))
	rec := testutil.NewRecorder()
	Routes(NewHandler()).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Veille Concurrentielle")
	rec.AssertContains(t, `href="/login"`)
	rec.AssertNotContains(t, "Accéder au tableau de bord")
}

func TestIndex_SignedIn(t *testing.T) {
	testutil.MustBootTemplates(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser())
	rec := testutil.NewRecorder()
	Routes(NewHandler()).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Accéder au tableau de bord")
	rec.AssertContains(t, `class="sidebar"`)
}

func TestPillars(t *testing.T) {
	if len(Pillars) != 3 {
		t.Fatalf("got %d pillars, want 3", len(Pillars))
	}
	for _, p := range Pillars {
		if p.Href == "" || len(p.Features) == 0 {
			t.Errorf("pillar %q is incomplete", p.Title)
		}
	}
}
