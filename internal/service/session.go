package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/wikitrail/internal/domain"
)

// SessionTTL matches the browser session cookie lifetime.
const SessionTTL = 7 * 24 * time.Hour

// SessionService signs and validates the short-lived browser session
// established after a successful magic-link verification. The session is
// only used to reveal the API token; the extension API never touches it.
type SessionService struct {
	jwtSecret []byte
}

// NewSessionService creates a new SessionService.
func NewSessionService(jwtSecret string) *SessionService {
	return &SessionService{jwtSecret: []byte(jwtSecret)}
}

// Issue returns a signed session token for the user.
func (s *SessionService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Validate parses a session token and returns the user ID from its sub
// claim. Any parse or signature failure is ErrUnauthorized.
func (s *SessionService) Validate(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}
