package domain

import (
	"context"
	"time"
)

// MagicToken is a single-use sign-in secret mailed to an email address.
// Expiry is evaluated lazily at verification time; stale rows accumulate.
type MagicToken struct {
	ID        int64
	Email     string
	Secret    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// MagicTokenRepository defines persistence operations for magic tokens.
type MagicTokenRepository interface {
	Create(ctx context.Context, token *MagicToken) error
	GetBySecret(ctx context.Context, secret string) (*MagicToken, error)
	// Consume marks the token used at the given time. It only succeeds if
	// the token has not been consumed yet; a lost race returns ErrTokenUsed.
	Consume(ctx context.Context, id int64, usedAt time.Time) error
}
