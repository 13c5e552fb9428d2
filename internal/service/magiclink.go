package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
)

// MagicLinkTTL is how long an issued magic link stays valid.
const MagicLinkTTL = 15 * time.Minute

// MagicLinkService issues and verifies single-use sign-in tokens.
type MagicLinkService struct {
	tokens domain.MagicTokenRepository
}

// NewMagicLinkService creates a new MagicLinkService.
func NewMagicLinkService(tokens domain.MagicTokenRepository) *MagicLinkService {
	return &MagicLinkService{tokens: tokens}
}

// Issue generates a fresh secret for the email and records it with a
// 15-minute expiry. The returned secret goes into the magic-link URL.
// Issue does not validate the address: a link mailed to a mistyped
// email simply never gets clicked, so the only failure is the store.
func (s *MagicLinkService) Issue(ctx context.Context, email string) (string, error) {
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}

	token := &domain.MagicToken{
		Email:     email,
		Secret:    secret,
		ExpiresAt: time.Now().UTC().Add(MagicLinkTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("create magic token: %w", err)
	}
	return secret, nil
}

// Verify consumes the secret and returns the email it was issued for.
// Fails with ErrNotFound, ErrTokenUsed, or ErrTokenExpired. A token can
// be consumed at most once even under concurrent verifies: the repository
// consume is conditional and the loser observes ErrTokenUsed.
func (s *MagicLinkService) Verify(ctx context.Context, secret string) (string, error) {
	token, err := s.tokens.GetBySecret(ctx, secret)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get magic token: %w", err)
	}

	if token.UsedAt != nil {
		return "", domain.ErrTokenUsed
	}
	if time.Now().After(token.ExpiresAt) {
		return "", domain.ErrTokenExpired
	}

	if err := s.tokens.Consume(ctx, token.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, domain.ErrTokenUsed) {
			return "", domain.ErrTokenUsed
		}
		return "", fmt.Errorf("consume magic token: %w", err)
	}
	return token.Email, nil
}

// generateSecret returns 32 random bytes hex-encoded (256 bits of entropy).
// Used for both magic-link secrets and API bearer tokens.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
