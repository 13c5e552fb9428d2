package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/wikitrail/internal/domain"
)

// DedupWindow is the trailing interval during which a repeat visit to the
// same URL by the same user is skipped instead of recorded.
const DedupWindow = 5 * time.Minute

// VisitService authenticates bearer tokens and ingests article visits.
type VisitService struct {
	users  domain.UserRepository
	visits domain.VisitRepository
	thumbs domain.ThumbnailProvider
}

// NewVisitService creates a new VisitService.
func NewVisitService(users domain.UserRepository, visits domain.VisitRepository, thumbs domain.ThumbnailProvider) *VisitService {
	return &VisitService{users: users, visits: visits, thumbs: thumbs}
}

// RecordResult reports the outcome of a Record call.
type RecordResult struct {
	Duplicate bool
	Visit     *domain.Visit // nil when Duplicate
}

// Authenticate resolves a bearer token to its user. Any miss, including
// an empty token, is ErrUnauthorized.
func (s *VisitService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByAPIToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	return user, nil
}

// Record ingests one article visit. A repeat of the same URL inside the
// dedup window is a no-op success and skips the thumbnail lookup entirely.
// Thumbnail enrichment is best effort: a failed lookup degrades to a null
// thumbnail, never to an error.
func (s *VisitService) Record(ctx context.Context, user *domain.User, articleTitle, articleURL, language string) (*RecordResult, error) {
	if articleTitle == "" || articleURL == "" {
		return nil, fmt.Errorf("%w: articleTitle and articleUrl are required", domain.ErrInvalidInput)
	}
	if language == "" {
		language = "en"
	}

	now := time.Now().UTC()
	dup, err := s.visits.HasSince(ctx, user.ID, articleURL, now.Add(-DedupWindow))
	if err != nil {
		return nil, fmt.Errorf("check duplicate visit: %w", err)
	}
	if dup {
		return &RecordResult{Duplicate: true}, nil
	}

	var thumbnail *string
	if url, found := s.thumbs.Lookup(ctx, articleTitle, language); found {
		thumbnail = &url
	}

	visit := &domain.Visit{
		UserID:       user.ID,
		ArticleTitle: articleTitle,
		ArticleURL:   articleURL,
		Language:     language,
		ThumbnailURL: thumbnail,
		VisitedAt:    now,
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}
	return &RecordResult{Visit: visit}, nil
}

// History returns the user's visits, newest first.
func (s *VisitService) History(ctx context.Context, userID int64) ([]domain.Visit, error) {
	return s.visits.ListByUser(ctx, userID)
}
