package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 3})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got["n"] != 3 {
		t.Errorf("body = %s (%v)", rec.Body.String(), err)
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusServiceUnavailable, "database unreachable")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"database unreachable"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestDecode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"section":"veille","expanded":false}`))
	var in struct {
		Section  string `json:"section"`
		Expanded bool   `json:"expanded"`
	}
	if err := Decode(req, &in); err != nil {
		t.Fatal(err)
	}
	if in.Section != "veille" || in.Expanded {
		t.Errorf("decoded %+v", in)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	if err := Decode(bad, &in); err == nil {
		t.Error("malformed body decoded")
	}
}

func TestNotify(t *testing.T) {
	rec := httptest.NewRecorder()
	Notify(rec, "error", "Envoi déjà en cours")

	var got map[string]Notice
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &got); err != nil {
		t.Fatalf("HX-Trigger not JSON: %v", err)
	}
	if got["notify"].Level != "error" || got["notify"].Message != "Envoi déjà en cours" {
		t.Errorf("notice = %+v", got["notify"])
	}
}

func TestNotify_HeaderIsASCII(t *testing.T) {
	rec := httptest.NewRecorder()
	Notify(rec, "success", "Objectifs enregistrés ✓")

	h := rec.Header().Get("HX-Trigger")
	for i := 0; i < len(h); i++ {
		if h[i] >= 0x80 {
			t.Fatalf("header has non-ASCII byte at %d: %q", i, h)
		}
	}
	var got map[string]Notice
	if err := json.Unmarshal([]byte(h), &got); err != nil {
		t.Fatalf("HX-Trigger not JSON: %v", err)
	}
	if got["notify"].Message != "Objectifs enregistrés ✓" {
		t.Errorf("message = %q", got["notify"].Message)
	}
}
