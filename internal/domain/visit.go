package domain

import (
	"context"
	"time"
)

// Visit records one article view by one user. Rows are immutable.
type Visit struct {
	ID           int64
	UserID       int64
	ArticleTitle string
	ArticleURL   string
	Language     string
	ThumbnailURL *string
	VisitedAt    time.Time
}

// VisitRepository defines persistence operations for visits.
type VisitRepository interface {
	Create(ctx context.Context, visit *Visit) error
	// HasSince reports whether the user already has a visit for the URL
	// strictly newer than the cutoff.
	HasSince(ctx context.Context, userID int64, articleURL string, cutoff time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Visit, error)
}

// ThumbnailProvider looks up an article thumbnail by title and language.
// The lookup is best effort: absence and failure both report found=false,
// callers never see an error.
type ThumbnailProvider interface {
	Lookup(ctx context.Context, articleTitle, language string) (url string, found bool)
}
