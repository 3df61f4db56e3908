package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "script removed",
			input:       `<p>Hello</p><script>alert(1)</script>`,
			contains:    []string{"<p>Hello</p>"},
			notContains: []string{"script", "alert"},
		},
		{
			name:        "event handler removed",
			input:       `<p onclick="x()">Hi</p>`,
			contains:    []string{"<p>Hi</p>"},
			notContains: []string{"onclick"},
		},
		{
			name:        "javascript link removed",
			input:       `<a href="javascript:alert(1)">x</a>`,
			notContains: []string{"javascript"},
		},
		{
			name:     "formatting kept",
			input:    `<strong>Gras</strong> et <em>italique</em>`,
			contains: []string{"<strong>Gras</strong>", "<em>italique</em>"},
		},
		{
			name:     "external links get nofollow",
			input:    `<a href="https://example.com">lien</a>`,
			contains: []string{`rel="nofollow`, `target="_blank"`},
		},
		{
			name:        "tables dropped",
			input:       `<table><tr><td>x</td></tr></table>`,
			notContains: []string{"<table", "<td"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, want it to contain %q", got, s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(got, s) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"à relancer en mars", "à relancer en mars"},
		{"<b>important</b> R&D", "important R&D"},
		{"<script>x</script>note", "note"},
		{"  spaces  ", "spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Strip(tt.input); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainTextToHTML(t *testing.T) {
	got := PlainTextToHTML("Ligne 1\nLigne 2\n\n<Paragraphe> 2")
	want := "<p>Ligne 1<br>Ligne 2</p><p>&lt;Paragraphe&gt; 2</p>"
	if got != want {
		t.Errorf("PlainTextToHTML() = %q, want %q", got, want)
	}
	if PlainTextToHTML("   ") != "" {
		t.Error("blank input should give empty output")
	}
}

func TestPostBody(t *testing.T) {
	if got := string(PostBody("Bonjour\n#growth")); got != "<p>Bonjour<br>#growth</p>" {
		t.Errorf("plain text body = %q", got)
	}
	if got := string(PostBody(`<p>ok</p><img src=x onerror=alert(1)>`)); strings.Contains(got, "onerror") {
		t.Errorf("html body not sanitized: %q", got)
	}
	if PostBody("") != "" {
		t.Error("empty content should give empty body")
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("<p>Un   deux\ntrois</p>", 100); got != "Un deux trois" {
		t.Errorf("Excerpt() = %q", got)
	}
	if got := Excerpt("abcdefghij", 4); got != "abcd…" {
		t.Errorf("Excerpt() = %q", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	input := `<p>Hello <strong>World</strong></p>`
	once := Sanitize(input)
	if twice := Sanitize(once); once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
