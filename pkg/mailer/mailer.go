// Package mailer composes and sends the storefront's activation
// emails. Delivery happens on the consumer side of the activation
// queue, decoupled from the registration request.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Sender delivers one email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// ComposeActivation builds the subject and HTML body of the activation
// email. baseURL is the externally reachable root of the storefront.
func ComposeActivation(username, token, baseURL string) (subject, body string) {
	link := fmt.Sprintf("%s/user/active/%s", strings.TrimRight(baseURL, "/"), token)
	subject = "Welcome to Freshmart"
	body = fmt.Sprintf(
		"<h1>%s, welcome to Freshmart!</h1>"+
			"<p>Click the link below within one hour to activate your account:</p>"+
			"<a href=%q>%s</a>",
		username, link, link,
	)
	return subject, body
}

// SMTPConfig holds SMTP server details.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through a plain SMTP server.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers the email via SMTP.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.From, to, subject, htmlBody,
	)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them. Used
// when no SMTP server is configured.
type LogSender struct{}

// Send logs the email.
func (s *LogSender) Send(to, subject, htmlBody string) error {
	log.Printf("mailer: would send to %s, subject %q: %s", to, subject, htmlBody)
	return nil
}
