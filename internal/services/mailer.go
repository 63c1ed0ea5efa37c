package services

import (
	"log"

	"taskboard-be/config"
)

// Mailer is the outbound-mail boundary. The actual transport (SMTP, an API
// provider) lives outside this service; the default implementation just logs
// so local development needs no mail setup.
type Mailer interface {
	Send(to, subject, body string) error
}

type logMailer struct {
	from string
}

func NewLogMailer(cfg *config.Config) Mailer {
	return &logMailer{from: cfg.MailFrom}
}

func (m *logMailer) Send(to, subject, body string) error {
	log.Printf("mail: from=%s to=%s subject=%q\n%s", m.from, to, subject, body)
	return nil
}

// SendConfirmation sends the email-verification link. Failures are logged
// and swallowed: a missing mail never blocks registration.
func SendConfirmation(m Mailer, cfg *config.Config, email, token string) {
	link := cfg.FrontendURL + "/confirm/" + token
	body := "Welcome! Confirm your email address by opening this link:\n\n" + link +
		"\n\nThe link expires in " + cfg.ConfirmExpiration.String() + "."
	if err := m.Send(email, "Confirm your email", body); err != nil {
		log.Println("mailer: failed to send confirmation to", email, ":", err)
	}
}
