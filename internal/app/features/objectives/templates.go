// internal/app/features/objectives/templates.go
package objectives

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the objectives form.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "objectives",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
