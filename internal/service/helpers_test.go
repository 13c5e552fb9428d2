package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/wikitrail/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
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
	return db
}

// stubThumbnails is a ThumbnailProvider returning a fixed result and
// counting lookups.
type stubThumbnails struct {
	url   string
	found bool
	calls int
}

func (s *stubThumbnails) Lookup(ctx context.Context, articleTitle, language string) (string, bool) {
	s.calls++
	return s.url, s.found
}
