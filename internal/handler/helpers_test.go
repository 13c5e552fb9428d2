package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/wikitrail/internal/handler"
	"github.com/msomdec/wikitrail/internal/repository/sqlite"
	"github.com/msomdec/wikitrail/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0"

// captureNotifier records magic-link sends on a channel so tests can wait
// for the fire-and-forget goroutine.
type captureNotifier struct {
	links chan string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{links: make(chan string, 8)}
}

func (c *captureNotifier) SendMagicLink(ctx context.Context, email, link string) error {
	c.links <- link
	return nil
}

// stubThumbnails is a ThumbnailProvider returning a fixed result.
type stubThumbnails struct {
	url   string
	found bool
}

func (s *stubThumbnails) Lookup(ctx context.Context, articleTitle, language string) (string, bool) {
	return s.url, s.found
}

type testEnv struct {
	srv        *httptest.Server
	db         *sqlite.DB
	magicLinks *service.MagicLinkService
	identity   *service.IdentityService
	notifier   *captureNotifier
}

func newTestEnv(t *testing.T, thumbs *stubThumbnails) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	magicLinks := service.NewMagicLinkService(db.MagicTokens())
	identity := service.NewIdentityService(db.Users())
	sessions := service.NewSessionService(testJWTSecret)
	visitSvc := service.NewVisitService(db.Users(), db.Visits(), thumbs)
	notifier := newCaptureNotifier()

	authHandler := handler.NewAuthHandler(magicLinks, identity, sessions, db.Users(), notifier, "http://app.test", false)
	visitHandler := handler.NewVisitHandler(visitSvc)
	profileHandler := handler.NewProfileHandler(db.Users(), visitSvc)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authHandler, visitHandler, profileHandler, visitSvc)

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:        srv,
		db:         db,
		magicLinks: magicLinks,
		identity:   identity,
		notifier:   notifier,
	}
}

// noRedirectClient returns a client that surfaces redirects instead of
// following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
