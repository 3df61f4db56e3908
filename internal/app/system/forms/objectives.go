// internal/app/system/forms/objectives.go
package forms

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/domain/models"
)

// ObjectivesForm edits the three monthly targets.
type ObjectivesForm struct {
	PostsPerMonth      string `json:"posts_per_month" validate:"required,target" label:"Posts par mois"`
	LeadsPerMonth      string `json:"leads_per_month" validate:"required,target" label:"Leads par mois"`
	CompetitorsToTrack string `json:"competitors_to_track" validate:"required,target" label:"Concurrents à suivre"`
}

// ObjectivesFormFrom fills the form from stored objectives.
func ObjectivesFormFrom(o models.Objectives) ObjectivesForm {
	return ObjectivesForm{
		PostsPerMonth:      strconv.Itoa(o.PostsPerMonth),
		LeadsPerMonth:      strconv.Itoa(o.LeadsPerMonth),
		CompetitorsToTrack: strconv.Itoa(o.CompetitorsToTrack),
	}
}

// ParseObjectivesForm reads the objectives form.
func ParseObjectivesForm(r *http.Request) ObjectivesForm {
	return ObjectivesForm{
		PostsPerMonth:      strings.TrimSpace(r.FormValue("posts_per_month")),
		LeadsPerMonth:      strings.TrimSpace(r.FormValue("leads_per_month")),
		CompetitorsToTrack: strings.TrimSpace(r.FormValue("competitors_to_track")),
	}
}

// Check validates every target.
func (f ObjectivesForm) Check() *inputval.Result { return inputval.Validate(f) }

// Objectives converts a checked form. Call only when Check has no errors.
func (f ObjectivesForm) Objectives() models.Objectives {
	atoi := func(s string) int { n, _ := strconv.Atoi(s); return n }
	return models.Objectives{
		PostsPerMonth:      atoi(f.PostsPerMonth),
		LeadsPerMonth:      atoi(f.LeadsPerMonth),
		CompetitorsToTrack: atoi(f.CompetitorsToTrack),
	}
}
