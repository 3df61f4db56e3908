// internal/app/features/posts/templates.go
package posts

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the post list, the creation form and the pending-submission panel.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "posts",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
