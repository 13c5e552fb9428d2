package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
	"github.com/msomdec/wikitrail/internal/notify"
	"github.com/msomdec/wikitrail/internal/service"
)

const sessionCookieName = "auth_token"

// AuthHandler handles the magic-link flow: login request, link
// verification, token reveal, and logout.
type AuthHandler struct {
	magicLinks   *service.MagicLinkService
	identity     *service.IdentityService
	sessions     *service.SessionService
	users        domain.UserRepository
	notifier     notify.Notifier
	baseURL      string
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	magicLinks *service.MagicLinkService,
	identity *service.IdentityService,
	sessions *service.SessionService,
	users domain.UserRepository,
	notifier notify.Notifier,
	baseURL string,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		magicLinks:   magicLinks,
		identity:     identity,
		sessions:     sessions,
		users:        users,
		notifier:     notifier,
		baseURL:      baseURL,
		cookieSecure: cookieSecure,
	}
}

// HandleLogin issues a magic link and mails it.
// POST /auth/login
// Request:  {"email":"..."}
// Response: 200 with a generic message regardless of whether the email
// belongs to an existing user.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	secret, err := h.magicLinks.Issue(r.Context(), req.Email)
	if err != nil {
		slog.Error("issue magic link", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	// Fire and forget: a failed send is logged and never fails the
	// response. The goroutine gets its own context so a slow mail server
	// cannot hold the request open.
	link := h.baseURL + "/auth/verify?token=" + secret
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.SendMagicLink(ctx, req.Email, link); err != nil {
			slog.Error("send magic link email", "email", req.Email, "error", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Check your email for a magic link!"})
}

// HandleVerify consumes a magic link, resolves the user, and starts a
// browser session used to reveal the API token.
// GET /auth/verify?token=...
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("token")
	if secret == "" {
		renderPage(w, http.StatusBadRequest, "error.html", errorPageData{Message: "Missing token"})
		return
	}

	email, err := h.magicLinks.Verify(r.Context(), secret)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			renderPage(w, http.StatusBadRequest, "error.html", errorPageData{Message: "Invalid token"})
		case errors.Is(err, domain.ErrTokenUsed):
			renderPage(w, http.StatusBadRequest, "error.html", errorPageData{Message: "This magic link has already been used"})
		case errors.Is(err, domain.ErrTokenExpired):
			renderPage(w, http.StatusBadRequest, "error.html", errorPageData{Message: "This magic link has expired"})
		default:
			slog.Error("verify magic link", "error", err)
			renderPage(w, http.StatusInternalServerError, "error.html", errorPageData{Message: "An unexpected error occurred. Please try again."})
		}
		return
	}

	user, err := h.identity.Resolve(r.Context(), email)
	if err != nil {
		slog.Error("resolve user", "email", email, "error", err)
		renderPage(w, http.StatusInternalServerError, "error.html", errorPageData{Message: "An unexpected error occurred. Please try again."})
		return
	}

	session, err := h.sessions.Issue(user)
	if err != nil {
		slog.Error("issue session", "error", err)
		renderPage(w, http.StatusInternalServerError, "error.html", errorPageData{Message: "An unexpected error occurred. Please try again."})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.SessionTTL.Seconds()),
	})
	http.Redirect(w, r, "/auth/token", http.StatusFound)
}

// HandleToken shows the signed-in user their API token.
// GET /auth/token
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	user := h.sessionUser(r)
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	renderPage(w, http.StatusOK, "token.html", tokenPageData{
		DisplayName: user.DisplayName,
		APIToken:    user.APIToken,
		Username:    user.Username,
	})
}

// HandleLogout clears the session cookie.
// GET /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) sessionUser(r *http.Request) *domain.User {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	userID, err := h.sessions.Validate(cookie.Value)
	if err != nil {
		return nil
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}
