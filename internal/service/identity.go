package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/msomdec/wikitrail/internal/domain"
)

// IdentityService resolves an email address to a user, provisioning one
// on first sign-in.
type IdentityService struct {
	users domain.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users domain.UserRepository) *IdentityService {
	return &IdentityService{users: users}
}

// Resolve returns the user for the email, creating one if none exists.
// Idempotent: re-resolving the same email always yields the same user.
// Creation is an optimistic insert; a concurrent resolve for the same
// email is absorbed by re-reading after a duplicate-email violation, and
// a username collision is retried once with a fresh suffix.
func (s *IdentityService) Resolve(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		candidate, err := s.provision(ctx, email, attempt > 0)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Another request provisioned this email first.
			return s.users.GetByEmail(ctx, email)
		}
		if errors.Is(err, domain.ErrDuplicateUsername) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("provision user %s: %w", email, domain.ErrDuplicateUsername)
}

func (s *IdentityService) provision(ctx context.Context, email string, forceSuffix bool) (*domain.User, error) {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	username := usernameFrom(local)
	needSuffix := forceSuffix
	if !needSuffix {
		exists, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		needSuffix = exists
	}
	if needSuffix {
		// Best-effort collision break; the unique constraint is the arbiter.
		username += strconv.FormatInt(time.Now().UnixNano(), 36)
	}

	apiToken, err := generateSecret()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:       email,
		DisplayName: displayNameFrom(local),
		Username:    username,
		APIToken:    apiToken,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// usernameFrom lower-cases the email local part and strips everything
// outside [a-z0-9].
func usernameFrom(local string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "reader"
	}
	return b.String()
}

// displayNameFrom capitalizes the first rune of the email local part.
func displayNameFrom(local string) string {
	if local == "" {
		return "Reader"
	}
	first, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(first)) + local[size:]
}
