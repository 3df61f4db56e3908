// Package normalize provides helper functions for consistent string
// normalization. Use these instead of scattered strings.ToLower and
// strings.TrimSpace calls so stored and compared values agree.
package normalize

import (
	"net/url"
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name.
// Use text.Fold() for case-insensitive comparison keys.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Company is the key used to count distinct companies: trimmed and
// lowercased, with inner runs of spaces collapsed.
func Company(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// QueryParam trims a query parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// ProfileURL cleans a pasted LinkedIn profile URL: adds https:// when no
// scheme is given, lowercases the host, and drops the query, fragment and
// trailing slash. Anything that does not parse is returned trimmed.
func ProfileURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
