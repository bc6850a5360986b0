package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/ports"
)

// SMTPSender delivers mail over plain SMTP. Auth is optional: when Username is
// empty the sender talks to an open relay (the usual setup for a local
// mailcatcher).
type SMTPSender struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewSMTPSender creates an SMTPSender for the given relay.
func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

func (s *SMTPSender) Send(recipient, subject, body string) (string, error) {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	msg := buildMessage(s.from, recipient, subject, body)
	if err := smtp.SendMail(addr, auth, s.from, []string{recipient}, msg); err != nil {
		return "", fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return "", nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// DevSender simulates delivery by logging the message. Used when no SMTP host
// is configured so the rest of the pipeline (records, dedup, statuses) can be
// exercised locally.
type DevSender struct {
	log zerolog.Logger
}

func NewDevSender(log zerolog.Logger) *DevSender {
	return &DevSender{log: log}
}

func (s *DevSender) Send(recipient, subject, body string) (string, error) {
	s.log.Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("simulated email delivery")
	return "delivery simulated in dev mode", nil
}

var (
	_ ports.EmailSender = (*SMTPSender)(nil)
	_ ports.EmailSender = (*DevSender)(nil)
)
