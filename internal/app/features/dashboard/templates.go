// internal/app/features/dashboard/templates.go
package dashboard

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the dashboard page and its polled KPI fragment.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "dashboard",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
