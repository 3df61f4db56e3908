// internal/app/system/viewdata/notices.go
package viewdata

import (
	"net/http"
	"net/url"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Error codes carried in ?error= after a redirect.
const (
	ErrStore      = "store"
	ErrRelay      = "relay"
	ErrNotFound   = "not_found"
	ErrBusy       = "busy"
	ErrTransition = "transition"
	ErrUpload     = "upload"
	ErrProcedure  = "procedure"
	ErrInvalid    = "invalid"
)

var errorMessages = map[string]string{
	ErrStore:      "Impossible de joindre la base de données. Réessayez dans un instant.",
	ErrRelay:      "Le service d'automatisation n'a pas répondu correctement.",
	ErrNotFound:   "Élément introuvable.",
	ErrBusy:       "Envoi déjà en cours",
	ErrTransition: "Ce changement de statut n'est pas autorisé.",
	ErrUpload:     "L'envoi de l'image a échoué.",
	ErrProcedure:  "L'opération a été refusée par la base de données.",
	ErrInvalid:    "Formulaire invalide.",
}

// Success codes carried in ?ok= after a redirect.
const (
	OKCompetitorRequested = "competitor_requested"
	OKCompetitorDeleted   = "competitor_deleted"
	OKStatusChanged       = "status_changed"
	OKPostAdded           = "post_added"
	OKPostSubmitted       = "post_submitted"
	OKPostPublished       = "post_published"
	OKPostScheduled       = "post_scheduled"
	OKTableCreated        = "table_created"
	OKObjectivesSaved     = "objectives_saved"
	OKNotesSaved          = "notes_saved"
)

var okMessages = map[string]string{
	OKCompetitorRequested: "Profil envoyé. Le concurrent apparaîtra après l'analyse.",
	OKCompetitorDeleted:   "Concurrent supprimé.",
	OKStatusChanged:       "Statut mis à jour.",
	OKPostAdded:           "Post ajouté.",
	OKPostSubmitted:       "Post envoyé à la génération.",
	OKPostPublished:       "Publication demandée.",
	OKPostScheduled:       "Programmation demandée.",
	OKTableCreated:        "Table des commentaires créée.",
	OKObjectivesSaved:     "Objectifs enregistrés.",
	OKNotesSaved:          "Notes enregistrées.",
}

// ErrorMessage returns the French message for an error code.
func ErrorMessage(code string) string {
	if m, ok := errorMessages[code]; ok {
		return m
	}
	return "Une erreur est survenue."
}

// SuccessMessage returns the French message for a success code.
func SuccessMessage(code string) string {
	return okMessages[code]
}

// NoticeFromQuery decodes ?error= or ?ok= into a level and message.
// Unknown success codes are ignored.
func NoticeFromQuery(r *http.Request) (level, message string) {
	q := r.URL.Query()
	if code := q.Get("error"); code != "" {
		return LevelError, ErrorMessage(code)
	}
	if code := q.Get("ok"); code != "" {
		if m := SuccessMessage(code); m != "" {
			return LevelSuccess, m
		}
	}
	return "", ""
}

// WithError returns path with ?error=code appended.
func WithError(path, code string) string {
	return withParam(path, "error", code)
}

// WithOK returns path with ?ok=code appended.
func WithOK(path, code string) string {
	return withParam(path, "ok", code)
}

func withParam(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
