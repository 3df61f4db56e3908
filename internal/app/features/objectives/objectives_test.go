package objectives

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/strataleads/internal/app/features/errors"
	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/dalemusser/strataleads/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *prefstore.Store) {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	prefs := prefstore.New(prefstore.NewMongoBackend(db), zap.NewNop())
	return NewHandler(remote.New(db), prefs, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop()), prefs
}

func TestShow_Defaults(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.SignedInUser()))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `name="posts_per_month" type="number" min="1" value="25"`)
	rec.AssertContains(t, `value="50"`)
	rec.AssertContains(t, "0 / 10")
}

func TestSave(t *testing.T) {
	h, prefs := newTestHandler(t)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewFormRequest("/", "posts_per_month=12&leads_per_month=30&competitors_to_track=5", user))
	rec.AssertRedirect(t, "/objectives?ok=objectives_saved")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	want := models.Objectives{PostsPerMonth: 12, LeadsPerMonth: 30, CompetitorsToTrack: 5}
	if got := prefs.Objectives(ctx, user.ID); got != want {
		t.Errorf("Objectives() = %+v, want %+v", got, want)
	}
}

func TestSave_InvalidKeepsStoredTargets(t *testing.T) {
	h, prefs := newTestHandler(t)
	user := testutil.SignedInUser()

	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.NewFormRequest("/", "posts_per_month=0&leads_per_month=30&competitors_to_track=abc", user))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Posts par mois doit être un entier supérieur à 0.")
	rec.AssertContains(t, `value="abc"`)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if got := prefs.Objectives(ctx, user.ID); got != models.DefaultObjectives() {
		t.Errorf("Objectives() = %+v, want defaults", got)
	}
}
