// internal/app/system/forms/competitor.go
package forms

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/app/system/normalize"
	"github.com/google/uuid"
)

// CompetitorForm is the add-competitor dialog.
type CompetitorForm struct {
	URL string `json:"url" validate:"required,httpurl" label:"URL du profil LinkedIn"`
}

// ParseCompetitorForm reads and normalizes the profile URL.
func ParseCompetitorForm(r *http.Request) CompetitorForm {
	return CompetitorForm{URL: normalize.ProfileURL(r.FormValue("url"))}
}

// CanSubmit reports whether the URL is filled in.
func (f CompetitorForm) CanSubmit() bool { return f.URL != "" }

// Check validates the URL.
func (f CompetitorForm) Check() *inputval.Result { return inputval.Validate(f) }

// CompetitorPostForm is the manual competitor-post insert. Token works as
// in PostForm: one rendering, one insert.
type CompetitorPostForm struct {
	Token        string `json:"token"`
	CompetitorID string `json:"competitor_id" validate:"required" label:"Concurrent"`
	Caption      string `json:"caption" validate:"required" label:"Texte du post"`
	PostURL      string `json:"post_url" label:"Lien du post"`
	Likes        string `json:"likes" validate:"count" label:"J'aime"`
	Comments     string `json:"comments" validate:"count" label:"Commentaires"`
	Shares       string `json:"shares" validate:"count" label:"Partages"`
}

// NewCompetitorPostForm returns an empty insert form for a competitor.
func NewCompetitorPostForm(competitorID int64) CompetitorPostForm {
	return CompetitorPostForm{
		Token:        uuid.NewString(),
		CompetitorID: strconv.FormatInt(competitorID, 10),
	}
}

// ParseCompetitorPostForm reads the insert form. A missing token gets a
// fresh one, so such a request is never refused as a duplicate.
func ParseCompetitorPostForm(r *http.Request) CompetitorPostForm {
	tok := strings.TrimSpace(r.FormValue("token"))
	if tok == "" {
		tok = uuid.NewString()
	}
	return CompetitorPostForm{
		Token:        tok,
		CompetitorID: strings.TrimSpace(r.FormValue("competitor_id")),
		Caption:      strings.TrimSpace(r.FormValue("caption")),
		PostURL:      strings.TrimSpace(r.FormValue("post_url")),
		Likes:        strings.TrimSpace(r.FormValue("likes")),
		Comments:     strings.TrimSpace(r.FormValue("comments")),
		Shares:       strings.TrimSpace(r.FormValue("shares")),
	}
}

// CanSubmit reports whether the required fields are filled in.
func (f CompetitorPostForm) CanSubmit() bool {
	return f.CompetitorID != "" && f.Caption != ""
}

// Check validates the form, including the optional post link.
func (f CompetitorPostForm) Check() *inputval.Result {
	res := inputval.Validate(f)
	if _, err := strconv.ParseInt(f.CompetitorID, 10, 64); f.CompetitorID != "" && err != nil {
		res.Add("competitor_id", "Concurrent", "Concurrent invalide.")
	}
	if f.PostURL != "" && !inputval.IsValidHTTPURL(f.PostURL) {
		res.Add("post_url", "Lien du post", "Le lien du post doit commencer par http:// ou https://.")
	}
	return res
}

// CompetitorIDValue returns the parsed competitor id, 0 when invalid.
func (f CompetitorPostForm) CompetitorIDValue() int64 {
	n, _ := strconv.ParseInt(f.CompetitorID, 10, 64)
	return n
}
