package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"iglesia/internal/config"
	"iglesia/internal/logger"
	"iglesia/internal/report"
	"iglesia/internal/subscribers"
)

// Sender delivers rendered emails over SMTP with STARTTLS.
type Sender struct {
	cfg  config.Email
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender returns a Sender for the configured SMTP account.
func NewSender(cfg config.Email) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

// message assembles the MIME message for one recipient.
func (s *Sender) message(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.User)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// Send delivers one email. smtp.SendMail negotiates STARTTLS when the
// server offers it, which Gmail's submission port does.
func (s *Sender) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := s.send(addr, auth, s.cfg.User, []string{to}, s.message(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to send to %s: %w", to, err)
	}
	return nil
}

// RenderFunc produces the personalized HTML body for one subscriber.
type RenderFunc func(sub subscribers.Subscriber) (string, error)

// SendToAll renders and sends one email per subscriber. In debug mode
// only the sender's own address receives mail. Per-recipient failures
// are recorded and the rest of the list still gets its mail.
func (s *Sender) SendToAll(subs []subscribers.Subscriber, subject string, render RenderFunc, debug bool) *report.Batch {
	if debug {
		logger.Info("debug mode, sending only to the sender address", "to", s.cfg.User)
		subs = []subscribers.Subscriber{{Email: s.cfg.User, FirstName: "Debug"}}
	}

	batch := report.New("email")
	for _, sub := range subs {
		body, err := render(sub)
		if err != nil {
			batch.Failure(sub.Email, err, "render failed")
			continue
		}
		if err := s.Send(sub.Email, subject, body); err != nil {
			logger.Error("delivery failed", err, "to", sub.Email)
			batch.Failure(sub.Email, err, "delivery failed")
			continue
		}
		batch.Success(sub.Email)
	}
	logger.Info("email batch finished", "sent", batch.Succeeded(), "failed", len(batch.Failed()))
	return batch
}
