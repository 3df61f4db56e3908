// internal/app/system/forms/post.go
package forms

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/domain/models"
	"github.com/google/uuid"
)

// ScheduleLayout is the value format of an <input type="datetime-local">.
const ScheduleLayout = "2006-01-02T15:04"

// ErrBadSchedule is returned when scheduled_for does not parse.
var ErrBadSchedule = errors.New("forms: invalid scheduled_for")

// ErrPastSchedule is returned when scheduled_for is not after now.
var ErrPastSchedule = errors.New("forms: scheduled_for is in the past")

// PostForm is the new-post dialog. Token identifies one rendering of the
// form so a double submit of the same rendering can be refused.
type PostForm struct {
	Token        string `json:"token"`
	TypePost     string `json:"type_post" validate:"required,oneof=full idea" label:"Type de post"`
	Contenu      string `json:"contenu" validate:"required" label:"Contenu"`
	OptionImage  string `json:"option_image" validate:"required,oneof=none upload ai" label:"Image"`
	PromptImage  string `json:"prompt_image" label:"Description de l'image"`
	HasCTA       bool   `json:"has_cta"`
	CTAKeyword   string `json:"cta_keyword" label:"Mot-clé du CTA"`
	SaveAs       string `json:"save_as" validate:"required,oneof=draft scheduled published" label:"Enregistrer comme"`
	ScheduledFor string `json:"scheduled_for" label:"Date de publication"`
}

// NewPostForm returns an empty form with a fresh token.
func NewPostForm() PostForm {
	return PostForm{
		Token:       uuid.NewString(),
		TypePost:    string(models.PostTypeFull),
		OptionImage: models.ImageNone,
		SaveAs:      string(models.PostDraft),
	}
}

// ParsePostForm reads the dialog fields from r. Missing selects fall back
// to the defaults of NewPostForm; text fields are trimmed.
func ParsePostForm(r *http.Request) PostForm {
	f := NewPostForm()
	if tok := strings.TrimSpace(r.FormValue("token")); tok != "" {
		f.Token = tok
	}
	if v := r.FormValue("type_post"); v != "" {
		f.TypePost = v
	}
	if v := r.FormValue("option_image"); v != "" {
		f.OptionImage = v
	}
	if v := r.FormValue("save_as"); v != "" {
		f.SaveAs = v
	}
	f.Contenu = strings.TrimSpace(r.FormValue("contenu"))
	f.PromptImage = strings.TrimSpace(r.FormValue("prompt_image"))
	f.HasCTA = isChecked(r.FormValue("has_cta"))
	f.CTAKeyword = strings.TrimSpace(r.FormValue("cta_keyword"))
	f.ScheduledFor = strings.TrimSpace(r.FormValue("scheduled_for"))
	return f
}

func isChecked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Missing lists the gated fields that are still empty, in form order.
func (f PostForm) Missing() []string {
	var out []string
	if f.Contenu == "" {
		out = append(out, "contenu")
	}
	if f.OptionImage == models.ImageAI && f.PromptImage == "" {
		out = append(out, "prompt_image")
	}
	if f.HasCTA && f.CTAKeyword == "" {
		out = append(out, "cta_keyword")
	}
	if f.SaveAs == string(models.PostScheduled) && f.ScheduledFor == "" {
		out = append(out, "scheduled_for")
	}
	return out
}

// CanSubmit is false while any gated field is empty. The template renders
// the submit button disabled in that case.
func (f PostForm) CanSubmit() bool {
	return len(f.Missing()) == 0
}

// IsIdea reports whether the form describes an idea to expand.
func (f PostForm) IsIdea() bool { return f.TypePost == string(models.PostTypeIdea) }

// WantsUpload reports whether an image file is expected.
func (f PostForm) WantsUpload() bool { return f.OptionImage == models.ImageUpload }

// Check runs the tag rules and the conditional requirements. The
// publication date is read in loc and must be after now.
func (f PostForm) Check(loc *time.Location, now time.Time) *inputval.Result {
	res := inputval.Validate(f)
	if f.OptionImage == models.ImageAI && f.PromptImage == "" {
		res.Add("prompt_image", "Description de l'image", "Décrivez l'image à générer.")
	}
	if f.HasCTA && f.CTAKeyword == "" {
		res.Add("cta_keyword", "Mot-clé du CTA", "Indiquez le mot-clé du CTA.")
	}
	if f.SaveAs == string(models.PostScheduled) {
		if f.ScheduledFor == "" {
			res.Add("scheduled_for", "Date de publication", "Choisissez une date de publication.")
		} else if _, err := f.ScheduleAfter(loc, now); errors.Is(err, ErrPastSchedule) {
			res.Add("scheduled_for", "Date de publication", "La date de publication doit être dans le futur.")
		} else if err != nil {
			res.Add("scheduled_for", "Date de publication", "Date de publication invalide.")
		}
	}
	return res
}

// ScheduledTime parses scheduled_for in loc. It returns nil when the post
// is not being scheduled.
func (f PostForm) ScheduledTime(loc *time.Location) (*time.Time, error) {
	if f.SaveAs != string(models.PostScheduled) || f.ScheduledFor == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(ScheduleLayout, f.ScheduledFor, loc)
	if err != nil {
		return nil, ErrBadSchedule
	}
	return &t, nil
}

// ScheduleAfter is ScheduledTime plus the rule that the date lies after now.
func (f PostForm) ScheduleAfter(loc *time.Location, now time.Time) (*time.Time, error) {
	t, err := f.ScheduledTime(loc)
	if err != nil || t == nil {
		return t, err
	}
	if !t.After(now) {
		return nil, ErrPastSchedule
	}
	return t, nil
}

// ContentPayload builds the webhook body. Optional fields are only sent
// when their toggle is on; scheduled_for is read in loc and sent in UTC.
// Call it on a form that passed Check.
func (f PostForm) ContentPayload(imageURL string, loc *time.Location, now time.Time) automation.ContentPayload {
	p := automation.ContentPayload{
		TypePost:    f.TypePost,
		Contenu:     f.Contenu,
		OptionImage: f.OptionImage,
		HasCTA:      f.HasCTA,
		SaveAs:      f.SaveAs,
		Timestamp:   now.UTC(),
	}
	if f.OptionImage == models.ImageAI {
		p.PromptImage = f.PromptImage
	}
	if f.HasCTA {
		p.CTAKeyword = f.CTAKeyword
	}
	if f.OptionImage == models.ImageUpload {
		p.ImageURL = imageURL
	}
	if t, err := f.ScheduledTime(loc); err == nil && t != nil {
		utc := t.UTC()
		p.ScheduledFor = &utc
	}
	return p
}
