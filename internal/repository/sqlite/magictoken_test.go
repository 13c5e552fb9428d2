package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
)

func TestMagicTokenRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
	token := &domain.MagicToken{
		Email:     "link@example.com",
		Secret:    "secret-1",
		ExpiresAt: expiresAt,
	}
	if err := db.MagicTokens().Create(ctx, token); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token.ID == 0 {
		t.Fatal("expected token ID to be set")
	}

	got, err := db.MagicTokens().GetBySecret(ctx, "secret-1")
	if err != nil {
		t.Fatalf("GetBySecret: %v", err)
	}
	if got.Email != "link@example.com" {
		t.Fatalf("expected email link@example.com, got %s", got.Email)
	}
	if !got.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expected expiry %v, got %v", expiresAt, got.ExpiresAt)
	}
	if got.UsedAt != nil {
		t.Fatal("expected fresh token to be unused")
	}
}

func TestMagicTokenRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.MagicTokens().GetBySecret(context.Background(), "no-such-secret")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMagicTokenRepository_ConsumeOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	token := &domain.MagicToken{
		Email:     "once@example.com",
		Secret:    "secret-once",
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
	}
	if err := db.MagicTokens().Create(ctx, token); err != nil {
		t.Fatalf("Create: %v", err)
	}

	usedAt := time.Now().UTC().Truncate(time.Second)
	if err := db.MagicTokens().Consume(ctx, token.ID, usedAt); err != nil {
		t.Fatalf("first Consume: %v", err)
	}

	got, err := db.MagicTokens().GetBySecret(ctx, "secret-once")
	if err != nil {
		t.Fatalf("GetBySecret: %v", err)
	}
	if got.UsedAt == nil {
		t.Fatal("expected UsedAt to be set after consume")
	}
	if !got.UsedAt.Equal(usedAt) {
		t.Fatalf("expected UsedAt %v, got %v", usedAt, *got.UsedAt)
	}

	// A second consume must lose to the used_at guard.
	err = db.MagicTokens().Consume(ctx, token.ID, time.Now().UTC())
	if !errors.Is(err, domain.ErrTokenUsed) {
		t.Fatalf("expected ErrTokenUsed, got %v", err)
	}
}
