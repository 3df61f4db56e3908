// internal/app/features/home/home.go
package home

import (
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// Pillar is one product area presented on the landing page.
type Pillar struct {
	Title       string
	Description string
	Features    []string
	Href        string
}

// Pillars lists the three product areas in display order.
var Pillars = []Pillar{
	{
		Title:       "Veille Concurrentielle",
		Description: "Surveillez vos concurrents et analysez les tendances du marché LinkedIn",
		Features:    []string{"Analyse des concurrents", "Détection de tendances", "Benchmarks de performance"},
		Href:        "/competitors",
	},
	{
		Title:       "Création de Contenu",
		Description: "Créez et planifiez du contenu engageant pour maximiser votre impact",
		Features:    []string{"Création de posts", "Planification", "Gestion des brouillons"},
		Href:        "/posts/new",
	},
	{
		Title:       "Génération de Leads",
		Description: "Générez des leads qualifiés grâce à vos publications LinkedIn",
		Features:    []string{"Analyse des commentaires", "Identification de prospects", "Lead Magnet"},
		Href:        "/lead-magnet",
	},
}

// Handler serves the public landing page.
type Handler struct{}

// NewHandler creates a new home Handler.
func NewHandler() *Handler {
	return &Handler{}
}

type homeData struct {
	viewdata.BaseVM
	Pillars []Pillar
}

// Routes returns a chi.Router with the landing page mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	return r
}

// Index renders the landing page. Pillar links lead signed-out visitors
// through the login gate.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := homeData{BaseVM: viewdata.New(r), Pillars: Pillars}
	data.Title = "Accueil"
	templates.Render(w, r, "home/index", data)
}
