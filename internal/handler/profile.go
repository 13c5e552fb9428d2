package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/wikitrail/internal/domain"
	"github.com/msomdec/wikitrail/internal/service"
)

// ProfileHandler renders public reading-history profiles. It consumes the
// same newest-first visit ordering as the history API.
type ProfileHandler struct {
	users  domain.UserRepository
	visits *service.VisitService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users domain.UserRepository, visits *service.VisitService) *ProfileHandler {
	return &ProfileHandler{users: users, visits: visits}
}

// HandleProfile renders a user's public reading page.
// GET /u/{username}
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			renderPage(w, http.StatusNotFound, "notfound.html", nil)
			return
		}
		slog.Error("get user by username", "username", username, "error", err)
		renderPage(w, http.StatusInternalServerError, "error.html", errorPageData{Message: "An unexpected error occurred."})
		return
	}

	visits, err := h.visits.History(r.Context(), user.ID)
	if err != nil {
		slog.Error("list profile visits", "user_id", user.ID, "error", err)
		renderPage(w, http.StatusInternalServerError, "error.html", errorPageData{Message: "An unexpected error occurred."})
		return
	}

	data := profilePageData{
		DisplayName: user.DisplayName,
		Count:       len(visits),
	}
	for i := range visits {
		data.Visits = append(data.Visits, toProfileVisit(&visits[i]))
	}
	renderPage(w, http.StatusOK, "profile.html", data)
}
