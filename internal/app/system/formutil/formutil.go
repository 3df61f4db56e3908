// Package formutil helps re-render a form with the user's values and an
// error after a failed submission.
//
//	type newPostData struct {
//		formutil.Base
//		Form forms.PostForm
//	}
//
//	data := newPostData{Base: formutil.NewBase(r, "Nouveau post", "/posts"), Form: f}
//	data.SetError(res.First())
//	templates.Render(w, r, "posts/new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
)

// Base is embedded in form view models.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string]string
}

// NewBase creates a Base for a form page.
func NewBase(r *http.Request, title, backDefault string) Base {
	return Base{BaseVM: viewdata.NewBaseVM(r, title, backDefault)}
}

// SetError sets the form-level error message. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetResult records every field error of res and the first one as the
// form-level message.
func (b *Base) SetResult(res *inputval.Result) {
	if res == nil || !res.HasErrors() {
		return
	}
	b.FieldErrors = make(map[string]string, len(res.Errors))
	for _, e := range res.Errors {
		if _, seen := b.FieldErrors[e.Field]; !seen {
			b.FieldErrors[e.Field] = e.Message
		}
	}
	b.SetError(res.First())
}
