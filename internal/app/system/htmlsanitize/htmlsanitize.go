// Package htmlsanitize cleans text coming from the automation workflows
// (post content, scraped captions) and from users (competitor notes)
// before it is stored or rendered. It uses bluemonday.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// richPolicy keeps the formatting a generated post may carry.
	richPolicy *bluemonday.Policy
	// plainPolicy removes every tag.
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.NewPolicy()
		richPolicy.AllowElements("p", "br", "strong", "b", "em", "i", "u", "ul", "ol", "li", "blockquote")
		richPolicy.AllowStandardURLs()
		richPolicy.AllowAttrs("href").OnElements("a")
		richPolicy.RequireNoFollowOnLinks(true)
		richPolicy.AddTargetBlankToFullyQualifiedLinks(true)

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// Sanitize keeps basic formatting and links and drops everything else.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(html)
}

// Strip removes all markup, for values stored as plain text such as
// competitor notes. Entities produced by bluemonday are unescaped again so
// the stored text reads as typed.
func Strip(s string) string {
	if s == "" {
		return ""
	}
	_, plain := policies()
	out := plain.Sanitize(s)
	return strings.TrimSpace(unescape(out))
}

var entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&#39;", "'", "&quot;", `"`)

func unescape(s string) string { return entityReplacer.Replace(s) }

// IsPlainText reports whether content has no tags. Generated posts are
// usually plain text with newlines.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func PlainTextToHTML(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := template.HTMLEscapeString(para)
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(escaped, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// PostBody returns post content ready for rendering, whether it arrived
// as plain text or HTML.
func PostBody(content string) template.HTML {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return template.HTML(PlainTextToHTML(content))
	}
	return template.HTML(Sanitize(content))
}

// Excerpt returns at most n runes of the plain text of content, with an
// ellipsis when cut.
func Excerpt(content string, n int) string {
	s := strings.Join(strings.Fields(Strip(content)), " ")
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
