package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/msomdec/wikitrail/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type errorPageData struct {
	Message string
}

type tokenPageData struct {
	DisplayName string
	APIToken    string
	Username    string
}

type profileVisit struct {
	ArticleTitle string
	ArticleURL   string
	ThumbnailURL string // empty when the visit has no thumbnail
	VisitedAt    string
}

type profilePageData struct {
	DisplayName string
	Count       int
	Visits      []profileVisit
}

func toProfileVisit(v *domain.Visit) profileVisit {
	pv := profileVisit{
		ArticleTitle: v.ArticleTitle,
		ArticleURL:   v.ArticleURL,
		VisitedAt:    v.VisitedAt.UTC().Format("Jan 2, 2006 · 15:04"),
	}
	if v.ThumbnailURL != nil {
		pv.ThumbnailURL = *v.ThumbnailURL
	}
	return pv
}

// renderPage writes one of the embedded HTML pages.
func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render page", "template", name, "error", err)
	}
}

// HandleHome renders the landing page with the login form.
// GET /
func HandleHome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, "home.html", nil)
}
