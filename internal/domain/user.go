package domain

import (
	"context"
	"time"
)

// User represents an account provisioned on first magic-link sign-in.
// Username and APIToken are assigned once and never change.
type User struct {
	ID          int64
	Email       string
	DisplayName string
	Username    string // URL-safe, unique; backs the public profile path
	APIToken    string // opaque bearer secret presented by the extension
	CreatedAt   time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByAPIToken(ctx context.Context, token string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
