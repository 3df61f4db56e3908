// internal/app/system/etag/etag.go
package etag

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Of returns a strong ETag for body.
func Of(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// Matches reports whether the request's If-None-Match covers tag.
func Matches(r *http.Request, tag string) bool {
	inm := r.Header.Get("If-None-Match")
	if inm == "" {
		return false
	}
	for _, v := range strings.Split(inm, ",") {
		v = strings.TrimSpace(v)
		v = strings.TrimPrefix(v, "W/")
		if v == tag || v == "*" {
			return true
		}
	}
	return false
}

// Write sends body with its ETag, or 304 when the client already has it.
// Polled fragments use this so an unchanged table is not swapped again.
func Write(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	tag := Of(body)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if Matches(r, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

// Buffer is a ResponseWriter that captures a rendered fragment so it can be
// hashed before being sent.
type Buffer struct {
	bytes.Buffer
	header http.Header
	status int
}

// NewBuffer returns an empty capture buffer.
func NewBuffer() *Buffer {
	return &Buffer{header: make(http.Header), status: http.StatusOK}
}

func (b *Buffer) Header() http.Header { return b.header }

func (b *Buffer) WriteHeader(status int) { b.status = status }

// Status is the code the renderer asked for.
func (b *Buffer) Status() int { return b.status }

// Flush writes the captured fragment to w using Write, unless the renderer
// set a non-200 status, in which case it is copied through unchanged.
func (b *Buffer) Flush(w http.ResponseWriter, r *http.Request) {
	ct := b.header.Get("Content-Type")
	if ct == "" {
		ct = "text/html; charset=utf-8"
	}
	if b.status != http.StatusOK {
		for k, v := range b.header {
			w.Header()[k] = v
		}
		w.WriteHeader(b.status)
		_, _ = w.Write(b.Bytes())
		return
	}
	Write(w, r, ct, b.Bytes())
}

// Render captures what render writes and flushes it with an ETag.
func Render(w http.ResponseWriter, r *http.Request, render func(w http.ResponseWriter)) {
	buf := NewBuffer()
	render(buf)
	buf.Flush(w, r)
}
