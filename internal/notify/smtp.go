package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds settings for the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends magic-link emails over SMTP with a plain-text part
// and an HTML part.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier creates a new SMTPNotifier.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendMagicLink(ctx context.Context, email, link string) error {
	msg := n.buildMessage(email, link)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{email}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(to, link string) []byte {
	const boundary = "==WikitrailMagicLink=="

	text := fmt.Sprintf("Click the link below to sign in. It expires in 15 minutes.\r\n\r\n%s\r\n", link)
	html := fmt.Sprintf(`<p>Click the link below to sign in:</p><p><a href="%s">%s</a></p><p>This link expires in 15 minutes.</p>`, link, link)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: Wikipedia Tracker <%s>\r\n", n.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	buf.WriteString("Subject: Your Magic Link — Wikipedia Reading Tracker\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	buf.WriteString(text)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	buf.WriteString(html)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
