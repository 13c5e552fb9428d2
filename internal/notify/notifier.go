package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a magic-link email. Sends are fire and forget from
// the caller's point of view: failures are logged, never propagated to
// the login response.
type Notifier interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// LogNotifier writes the magic link to the log instead of sending mail.
// Used when SMTP is not configured, mirroring local development where the
// link is read off the server console.
type LogNotifier struct{}

func (LogNotifier) SendMagicLink(ctx context.Context, email, link string) error {
	slog.Info("magic link issued", "email", email, "link", link)
	return nil
}
