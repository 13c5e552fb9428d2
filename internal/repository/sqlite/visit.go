package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
)

// VisitRepository implements domain.VisitRepository using SQLite.
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new SQLite-backed VisitRepository.
func NewVisitRepository(db *DB) *VisitRepository {
	return &VisitRepository{db: db.SqlDB}
}

func (r *VisitRepository) Create(ctx context.Context, visit *domain.Visit) error {
	visitedAt := visit.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = time.Now().UTC()
	}
	visitedAt = visitedAt.UTC().Truncate(time.Second)

	var thumbnail sql.NullString
	if visit.ThumbnailURL != nil {
		thumbnail = sql.NullString{String: *visit.ThumbnailURL, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO visits (user_id, article_title, article_url, language, thumbnail_url, visited_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		visit.UserID, visit.ArticleTitle, visit.ArticleURL, visit.Language, thumbnail, visitedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	visit.ID = id
	visit.VisitedAt = visitedAt
	return nil
}

// HasSince reports whether the user has a visit for the URL strictly newer
// than the cutoff. Strict > keeps the dedup window boundary exact: a visit
// exactly window-old no longer suppresses a new write.
func (r *VisitRepository) HasSince(ctx context.Context, userID int64, articleURL string, cutoff time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM visits WHERE user_id = ? AND article_url = ? AND visited_at > ?",
		userID, articleURL, cutoff.Unix(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query recent visit: %w", err)
	}
	return n > 0, nil
}

func (r *VisitRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, article_title, article_url, language, thumbnail_url, visited_at
		 FROM visits WHERE user_id = ?
		 ORDER BY visited_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		var v domain.Visit
		var thumbnail sql.NullString
		var visitedAt int64
		if err := rows.Scan(&v.ID, &v.UserID, &v.ArticleTitle, &v.ArticleURL, &v.Language, &thumbnail, &visitedAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		if thumbnail.Valid {
			s := thumbnail.String
			v.ThumbnailURL = &s
		}
		v.VisitedAt = time.Unix(visitedAt, 0).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
