// Package email sends customer notifications over SMTP with gomail.
package email

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/customerly-inc/customerly/internal/shared/config"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// Sender delivers one multipart message.
type Sender interface {
	Send(to, subject, htmlBody, plainBody string) error
}

type SMTPEmailService struct {
	fromAddress string
	fromName    string
	dialer      *gomail.Dialer
}

func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if cfg.SMTPHost == "" || cfg.FromAddress == "" {
		return nil, ErrEmailServiceNotConfigured
	}
	return &SMTPEmailService{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}, nil
}

func (s *SMTPEmailService) Send(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.fromAddress, s.fromName)
	} else {
		m.SetHeader("From", s.fromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
