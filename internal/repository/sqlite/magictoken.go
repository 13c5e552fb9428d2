package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
)

// MagicTokenRepository implements domain.MagicTokenRepository using SQLite.
type MagicTokenRepository struct {
	db *sql.DB
}

// NewMagicTokenRepository creates a new SQLite-backed MagicTokenRepository.
func NewMagicTokenRepository(db *DB) *MagicTokenRepository {
	return &MagicTokenRepository{db: db.SqlDB}
}

func (r *MagicTokenRepository) Create(ctx context.Context, token *domain.MagicToken) error {
	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO magic_tokens (email, secret, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`,
		token.Email, token.Secret, token.ExpiresAt.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert magic token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	token.ID = id
	token.CreatedAt = now
	return nil
}

func (r *MagicTokenRepository) GetBySecret(ctx context.Context, secret string) (*domain.MagicToken, error) {
	token := &domain.MagicToken{}
	var expiresAt, createdAt int64
	var usedAt sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, secret, expires_at, used_at, created_at
		 FROM magic_tokens WHERE secret = ?`, secret,
	).Scan(&token.ID, &token.Email, &token.Secret, &expiresAt, &usedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query magic token: %w", err)
	}

	token.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	token.CreatedAt = time.Unix(createdAt, 0).UTC()
	if usedAt.Valid {
		t := time.Unix(usedAt.Int64, 0).UTC()
		token.UsedAt = &t
	}
	return token, nil
}

// Consume marks the token used. The used_at IS NULL guard makes the
// check and the write one atomic statement: of two concurrent verifies
// only one can see a row affected, the loser gets ErrTokenUsed.
func (r *MagicTokenRepository) Consume(ctx context.Context, id int64, usedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE magic_tokens SET used_at = ? WHERE id = ? AND used_at IS NULL",
		usedAt.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("consume magic token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTokenUsed
	}
	return nil
}
