package service

import (
	"context"
	"fmt"

	"hotel-backend/internal/config"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers one {to, subject, html} message.
type EmailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

type smtpSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) EmailSender {
	return &smtpSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	logger.ExternalServiceCall("smtp", "send", "to", msg.To, "subject", msg.Subject)
	err := s.dialer.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "send", err, "to", msg.To)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type sendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) EmailSender {
	return &sendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		"",
		msg.HTML,
	)

	logger.ExternalServiceCall("sendgrid", "send", "to", msg.To, "subject", msg.Subject)
	resp, err := s.client.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", msg.To)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	return nil
}

// NewEmailSender picks the delivery backend from configuration.
func NewEmailSender(cfg *config.Config) (EmailSender, error) {
	switch cfg.Email.Provider {
	case "smtp", "":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password,
			cfg.Email.From, cfg.Email.FromName), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.Email.From, cfg.Email.FromName), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
}
