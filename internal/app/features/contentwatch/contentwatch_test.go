package contentwatch

import (
	"net/http"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	competitorstore "github.com/dalemusser/strataleads/internal/app/store/competitors"
	cpoststore "github.com/dalemusser/strataleads/internal/app/store/competitorposts"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/strataleads/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func count(n int64) *int64 { return &n }

func newTestHandler(t *testing.T) (*Handler, *mongo.Database) {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	return NewHandler(remote.New(db), time.UTC, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop()), db
}

func seed(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acc := remote.New(db)

	alice, err := competitorstore.New(acc).Insert(ctx, models.Competitor{Name: "Alice Martin", URL: "https://www.linkedin.com/in/alice"})
	if err != nil {
		t.Fatal(err)
	}
	bruno, err := competitorstore.New(acc).Insert(ctx, models.Competitor{Name: "Bruno Lefèvre", URL: "https://www.linkedin.com/in/bruno"})
	if err != nil {
		t.Fatal(err)
	}

	day := time.Now().UTC().Add(-24 * time.Hour)
	week := time.Now().UTC().Add(-48 * time.Hour)
	posts := []models.CompetitorPost{
		{CompetitorID: alice.ID, Caption: "Prospection à froid", Likes: count(40), Comments: count(2), Hashtags: []string{"prospection"}, PostDate: &day},
		{CompetitorID: bruno.ID, Caption: "Recruter en 2025", Likes: count(900), Comments: count(1), PostDate: &week},
	}
	for _, p := range posts {
		if _, err := cpoststore.New(acc).Insert(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
}

func TestShow(t *testing.T) {
	h, db := newTestHandler(t)
	seed(t, db)

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser()))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Prospection à froid")
	rec.AssertContains(t, "Bruno Lefèvre")
	rec.AssertContains(t, "#prospection")
}

func TestRows_SearchByHashtagAndCompetitor(t *testing.T) {
	h, db := newTestHandler(t)
	seed(t, db)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows?search=PROSPECTION", user))
	rec.AssertContains(t, "Prospection à froid")
	rec.AssertNotContains(t, "Recruter en 2025")

	rec = testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows?search=lefevre", user))
	rec.AssertContains(t, "Recruter en 2025")
	rec.AssertNotContains(t, "Prospection à froid")

	rec = testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows?search=zzz", user))
	rec.AssertContains(t, "Aucun post ne correspond à cette recherche.")
}

func TestRows_SortByLikes(t *testing.T) {
	h, db := newTestHandler(t)
	seed(t, db)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows?sort=likes&dir=desc", user))
	body := rec.Body.String()
	if strings.Index(body, "Recruter en 2025") > strings.Index(body, "Prospection à froid") {
		t.Error("most liked post should come first")
	}

	rec = testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows?sort=likes&dir=asc", user))
	body = rec.Body.String()
	if strings.Index(body, "Prospection à froid") > strings.Index(body, "Recruter en 2025") {
		t.Error("least liked post should come first")
	}
}

func TestShow_Empty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser()))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Aucun post de concurrent pour le moment.")
}

func TestRows_OldPostDateUsesConfiguredZone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	h := NewHandler(remote.New(db), paris, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	ctx, cancel := testutil.TestContext()
	defer cancel()
	acc := remote.New(db)
	alice, err := competitorstore.New(acc).Insert(ctx, models.Competitor{Name: "Alice Martin"})
	if err != nil {
		t.Fatal(err)
	}
	lateEvening := time.Date(2025, 2, 28, 23, 30, 0, 0, time.UTC)
	if _, err := cpoststore.New(acc).Insert(ctx, models.CompetitorPost{CompetitorID: alice.ID, Caption: "Bilan de février", PostDate: &lateEvening}); err != nil {
		t.Fatal(err)
	}

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/rows", testutil.SignedInUser()))
	rec.AssertContains(t, "01/03/2025")
	rec.AssertNotContains(t, "28/02/2025")
}

func TestHashtagLine(t *testing.T) {
	r := Row{CompetitorPost: models.CompetitorPost{Hashtags: []string{"vente", "b2b"}}}
	if got := r.HashtagLine(); got != "#vente #b2b" {
		t.Errorf("HashtagLine() = %q", got)
	}
	if got := (Row{}).HashtagLine(); got != "" {
		t.Errorf("HashtagLine() = %q, want empty", got)
	}
}
