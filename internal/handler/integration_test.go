package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"
)

// TestIntegration_MagicLinkToVisitFlow walks the whole path: request a
// magic link, click it, reveal the API token, log a visit from the
// extension, and observe the dedup window.
func TestIntegration_MagicLinkToVisitFlow(t *testing.T) {
	env := newTestEnv(t, &stubThumbnails{})

	// 1. Request a magic link.
	resp, err := http.Post(env.srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"new@user.com"}`))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	// 2. Grab the emailed link and extract the secret.
	var link string
	select {
	case link = <-env.notifier.links:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for magic-link email")
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link %s: %v", link, err)
	}
	secret := parsed.Query().Get("token")
	if secret == "" {
		t.Fatalf("expected a token in the link, got %s", link)
	}

	// 3. Click the link; follow the redirect onto the token-reveal page.
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	resp, err = client.Get(env.srv.URL + "/auth/verify?token=" + secret)
	if err != nil {
		t.Fatalf("GET /auth/verify: %v", err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify flow: expected 200 token page, got %d", resp.StatusCode)
	}

	// 4. The user was provisioned with the derived username and the page
	// reveals the bearer token.
	user, err := env.db.Users().GetByEmail(context.Background(), "new@user.com")
	if err != nil {
		t.Fatalf("expected provisioned user: %v", err)
	}
	if user.Username != "new" {
		t.Fatalf("expected username new, got %s", user.Username)
	}
	if !strings.Contains(string(page), user.APIToken) {
		t.Fatal("expected token page to reveal the API token")
	}

	// 5. The extension logs a visit with the bearer token.
	body := `{"articleTitle":"Go","articleUrl":"https://en.wikipedia.org/wiki/Go","language":"en"}`
	resp = doVisit(t, env, user.APIToken, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("visit: expected 201, got %d", resp.StatusCode)
	}

	// 6. An immediate repeat is skipped as a window duplicate.
	resp = doVisit(t, env, user.APIToken, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat visit: expected 200, got %d", resp.StatusCode)
	}

	// 7. Exactly one row, visible in the history API and on the profile.
	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/api/visits", nil)
	req.Header.Set("Authorization", "Bearer "+user.APIToken)
	histResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/visits: %v", err)
	}
	var items []json.RawMessage
	if err := json.NewDecoder(histResp.Body).Decode(&items); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	histResp.Body.Close()
	if len(items) != 1 {
		t.Fatalf("expected 1 visit in history, got %d", len(items))
	}

	profResp, err := http.Get(env.srv.URL + "/u/new")
	if err != nil {
		t.Fatalf("GET /u/new: %v", err)
	}
	profResp.Body.Close()
	if profResp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", profResp.StatusCode)
	}
}
