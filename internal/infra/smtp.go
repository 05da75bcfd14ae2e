package infra

import (
	"fmt"
	"net/smtp"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for outgoing alert mail.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	to       string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		to:       cfg.AlertasEmail,
	}
}

// Enviar sends an HTML message to the configured alert recipient.
func (m *Mailer) Enviar(asunto, cuerpoHTML string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{m.to}
	e.Subject = asunto
	e.HTML = []byte(cuerpoHTML)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
