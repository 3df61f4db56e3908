// internal/app/features/competitors/templates.go
package competitors

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the competitor list, its rows and the standalone posts page.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "competitors",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
