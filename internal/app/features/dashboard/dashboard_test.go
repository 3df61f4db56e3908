package dashboard

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	leadstore "github.com/dalemusser/strataleads/internal/app/store/leads"
	poststore "github.com/dalemusser/strataleads/internal/app/store/posts"
	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/strataleads/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *mongo.Database, *prefstore.Store) {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	prefs := prefstore.New(prefstore.NewMongoBackend(db), zap.NewNop())
	h := NewHandler(remote.New(db), prefs, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return h, db, prefs
}

func seed(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acc := remote.New(db)

	now := time.Now().UTC()
	if _, err := competitorstore.New(acc).Insert(ctx, models.Competitor{Name: "Alice Martin", URL: "https://www.linkedin.com/in/alice"}); err != nil {
		t.Fatal(err)
	}
	if _, err := poststore.New(acc).Insert(ctx, models.Post{Content: "Trois leçons de prospection", Status: models.PostPublished}); err != nil {
		t.Fatal(err)
	}
	if err := leadstore.New(acc).Upsert(ctx, models.Lead{LinkedInID: "li-1", Name: "Hugo Bernard", Company: "Octo", Date: &now}); err != nil {
		t.Fatal(err)
	}
}

func TestShow(t *testing.T) {
	h, db, _ := newTestHandler(t)
	seed(t, db)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", user))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Tableau de bord")
	rec.AssertContains(t, "Posts publiés")
	rec.AssertContains(t, "Hugo Bernard · Octo")
	rec.AssertContains(t, "Concurrent ajouté")
	rec.AssertContains(t, `hx-get="/dashboard/kpis"`)
}

func TestShow_GoalsUseStoredObjectives(t *testing.T) {
	h, db, prefs := newTestHandler(t)
	seed(t, db)
	user := testutil.SignedInUser()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := prefs.SaveObjectives(ctx, user.ID, models.Objectives{PostsPerMonth: 4, LeadsPerMonth: 2, CompetitorsToTrack: 1}); err != nil {
		t.Fatal(err)
	}

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", user))

	rec.AssertContains(t, "1 / 4")
	rec.AssertContains(t, "width: 25%")
	rec.AssertContains(t, "width: 100%")
}

func TestShow_EmptyDatabase(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser()))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Aucune activité pour le moment.")
	rec.AssertNotContains(t, "notice-error")
}

func TestKPIsFragment_ETag(t *testing.T) {
	h, db, _ := newTestHandler(t)
	seed(t, db)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.HTMX(testutil.NewAuthenticatedRequest(http.MethodGet, "/kpis", user)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertNotContains(t, "<html")
	tag := rec.Header().Get("ETag")
	if tag == "" {
		t.Fatal("fragment has no ETag")
	}

	req := testutil.HTMX(testutil.NewAuthenticatedRequest(http.MethodGet, "/kpis", user))
	req.Header.Set("If-None-Match", tag)
	rec = testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNotModified)
}

func TestShow_ActivityReadsOnlyLatestRows(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acc := remote.New(db)

	base := time.Now().UTC().Add(-3 * time.Hour)
	for i, content := range []string{"Post le plus ancien", "Post du milieu", "Post le plus récent"} {
		if _, err := poststore.New(acc).Insert(ctx, models.Post{Content: content, Status: models.PostPublished, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := poststore.New(acc).Insert(ctx, models.Post{Content: "Brouillon récent", Status: models.PostDraft}); err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"Ancien concurrent", "Nouveau concurrent"} {
		if _, err := competitorstore.New(acc).Insert(ctx, models.Competitor{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser()))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Post le plus récent")
	rec.AssertContains(t, "Post du milieu")
	rec.AssertContains(t, "Nouveau concurrent")
	rec.AssertNotContains(t, "Post le plus ancien")
	rec.AssertNotContains(t, "Brouillon récent")
	rec.AssertNotContains(t, "Ancien concurrent")
}
