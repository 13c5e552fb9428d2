package handler

import (
	"net/http"

	"github.com/msomdec/wikitrail/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *AuthHandler, visits *VisitHandler, profile *ProfileHandler, visitSvc *service.VisitService) {
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /{$}", HandleHome)

	mux.HandleFunc("POST /auth/login", auth.HandleLogin)
	mux.HandleFunc("GET /auth/verify", auth.HandleVerify)
	mux.HandleFunc("GET /auth/token", auth.HandleToken)
	mux.HandleFunc("GET /auth/logout", auth.HandleLogout)

	mux.Handle("POST /api/visits", RequireToken(visitSvc, http.HandlerFunc(visits.HandleRecord)))
	mux.Handle("GET /api/visits", RequireToken(visitSvc, http.HandlerFunc(visits.HandleHistory)))

	mux.HandleFunc("GET /u/{username}", profile.HandleProfile)
}
