// internal/app/features/leadmagnet/templates.go
package leadmagnet

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the lead-magnet page and its totals fragment.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "leadmagnet",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
