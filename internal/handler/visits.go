package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
	"github.com/msomdec/wikitrail/internal/service"
)

// VisitHandler handles the extension-facing ingestion API.
type VisitHandler struct {
	visits *service.VisitService
}

// NewVisitHandler creates a new VisitHandler.
func NewVisitHandler(visits *service.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

type visitDTO struct {
	ID           int64   `json:"id"`
	ArticleTitle string  `json:"articleTitle"`
	ArticleURL   string  `json:"articleUrl"`
	Language     string  `json:"language"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	VisitedAt    string  `json:"visitedAt"`
}

func toVisitDTO(v *domain.Visit) visitDTO {
	return visitDTO{
		ID:           v.ID,
		ArticleTitle: v.ArticleTitle,
		ArticleURL:   v.ArticleURL,
		Language:     v.Language,
		ThumbnailURL: v.ThumbnailURL,
		VisitedAt:    v.VisitedAt.UTC().Format(time.RFC3339),
	}
}

// HandleRecord logs one article visit for the authenticated user.
// POST /api/visits
// Request:  {"articleTitle":"...","articleUrl":"...","language":"en"}
// Response: 201 on a new row, 200 when skipped as a window duplicate.
func (h *VisitHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ArticleTitle string `json:"articleTitle"`
		ArticleURL   string `json:"articleUrl"`
		Language     string `json:"language"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.visits.Record(r.Context(), user, req.ArticleTitle, req.ArticleURL, req.Language)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "articleTitle and articleUrl are required")
			return
		}
		slog.Error("record visit", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if result.Duplicate {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Duplicate visit (within 5 min), skipped"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Visit logged",
		"thumbnailUrl": result.Visit.ThumbnailURL,
	})
}

// HandleHistory returns the authenticated user's visits, newest first.
// GET /api/visits
func (h *VisitHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	visits, err := h.visits.History(r.Context(), user.ID)
	if err != nil {
		slog.Error("list visits", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]visitDTO, 0, len(visits))
	for i := range visits {
		dtos = append(dtos, toVisitDTO(&visits[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}
