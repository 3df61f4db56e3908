package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/strataleads/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorPages(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := NewHandler()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		title   string
	}{
		{"forbidden", h.Forbidden, http.StatusForbidden, "Accès refusé"},
		{"unauthorized", h.Unauthorized, http.StatusUnauthorized, "Connexion requise"},
		{"not found", h.NotFound, http.StatusNotFound, "Page introuvable"},
		{"internal", h.InternalError, http.StatusInternalServerError, "Erreur serveur"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			tt.handler(rec, testutil.WithCSRFToken(testutil.NewRequest(http.MethodGet, "/x")))
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.title)
		})
	}
}

func TestErrorLogger_CanceledIsDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := NewErrorLogger(zap.New(core))
	req := testutil.NewRequest(http.MethodGet, "/leads/rows")

	el.Log(req, "load leads", fmt.Errorf("list leads: %w", context.Canceled))
	el.Log(req, "load leads", fmt.Errorf("boom"), zap.String("extra", "x"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("canceled read logged at %v, want debug", entries[0].Level)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("failure logged at %v, want error", entries[1].Level)
	}
	if entries[1].ContextMap()["path"] != "/leads/rows" {
		t.Errorf("path field = %v", entries[1].ContextMap()["path"])
	}
}
