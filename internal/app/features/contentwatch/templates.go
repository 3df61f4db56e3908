// internal/app/features/contentwatch/templates.go
package contentwatch

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// FS holds the content watch page and its table fragment.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "contentwatch",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
