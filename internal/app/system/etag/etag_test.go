package etag

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOf_StableAndDistinct(t *testing.T) {
	a := Of([]byte("<tr>1</tr>"))
	if a != Of([]byte("<tr>1</tr>")) {
		t.Error("same body produced different tags")
	}
	if a == Of([]byte("<tr>2</tr>")) {
		t.Error("different bodies produced the same tag")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("tag %s is not quoted", a)
	}
}

func TestWrite_NotModified(t *testing.T) {
	body := []byte("<tbody>rows</tbody>")

	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodGet, "/leads/rows", nil), "text/html", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	tag := rec.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/leads/rows", nil)
	req.Header.Set("If-None-Match", "W/"+tag)
	rec = httptest.NewRecorder()
	Write(rec, req, "text/html", body)
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("304 carried a body")
	}
}

func TestBuffer_PassesErrorsThrough(t *testing.T) {
	b := NewBuffer()
	b.WriteHeader(http.StatusInternalServerError)
	_, _ = b.WriteString("oops")

	rec := httptest.NewRecorder()
	b.Flush(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if rec.Header().Get("ETag") != "" {
		t.Error("error response should not carry an ETag")
	}
}

func TestRender_TagsCapturedFragment(t *testing.T) {
	render := func(w http.ResponseWriter) { _, _ = w.Write([]byte("<tr>lead</tr>")) }

	rec := httptest.NewRecorder()
	Render(rec, httptest.NewRequest(http.MethodGet, "/leads/rows", nil), render)
	if rec.Body.String() != "<tr>lead</tr>" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if got, want := rec.Header().Get("ETag"), Of([]byte("<tr>lead</tr>")); got != want {
		t.Errorf("ETag = %s, want %s", got, want)
	}
}
