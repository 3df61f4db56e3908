// Package jsonutil writes JSON responses and htmx notification triggers.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes {"error": message} with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Notice is the payload of the "notify" client event. Level is one of
// success, error or info.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Notify sets HX-Trigger so the page shows a transient notification after
// an htmx swap. Must be called before the body is written. Non-ASCII runes
// are \u-escaped because browsers read header bytes as Latin-1.
func Notify(w http.ResponseWriter, level, message string) {
	b, err := json.Marshal(map[string]Notice{"notify": {Level: level, Message: message}})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", asciiJSON(b))
}

func asciiJSON(b []byte) string {
	var sb strings.Builder
	for _, r := range string(b) {
		if r < utf8.RuneSelf {
			sb.WriteRune(r)
			continue
		}
		for _, u := range utf16.Encode([]rune{r}) {
			fmt.Fprintf(&sb, "\\u%04x", u)
		}
	}
	return sb.String()
}
