package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/strataleads/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandler_Check(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decode(t, rec)
	if resp.Status != "ok" || resp.Services["mongodb"] != "ok" {
		t.Errorf("response = %+v, want ok with mongodb ok", resp)
	}
	if _, ok := resp.Services["redis"]; ok {
		t.Error("redis should not be probed when not configured")
	}
}

func TestHandler_Ready(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decode(t, rec).Status; got != "ready" {
		t.Errorf("status = %q, want ready", got)
	}
}

func TestHandler_Live(t *testing.T) {
	h := NewHandler(nil, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decode(t, rec).Status; got != "alive" {
		t.Errorf("status = %q, want alive", got)
	}
}

func TestMountRootEndpoints(t *testing.T) {
	h := NewHandler(nil, nil, zap.NewNop())
	r := chi.NewRouter()
	MountRootEndpoints(r, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/livez status = %d, want %d", rec.Code, http.StatusOK)
	}
}
