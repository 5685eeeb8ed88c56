package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/redact"
)

//go:embed templates
var templateFS embed.FS

const (
	sendAttempts = 3
	dialTimeout  = 10 * time.Second
)

// Mailer delivers a summary to its recipient.
type Mailer interface {
	Send(ctx context.Context, summary *Summary) error
}

type sender interface {
	DialAndSend(msgs ...*mail.Message) error
}

// SMTPMailer renders summaries with the embedded report template and sends
// them over SMTP.
type SMTPMailer struct {
	dialer sender
	from   string
	tmpl   *template.Template
	logger *slog.Logger
	// backoff is the pause between attempts.
	backoff time.Duration
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Sender == "" {
		return nil, errors.New("mail host and sender are required")
	}

	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = dialTimeout

	return newSMTPMailer(dialer, cfg.Sender, logger)
}

func newSMTPMailer(dialer sender, from string, logger *slog.Logger) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &SMTPMailer{
		dialer:  dialer,
		from:    from,
		tmpl:    tmpl,
		logger:  logger.With("component", "report_mailer"),
		backoff: 500 * time.Millisecond,
	}, nil
}

func (m *SMTPMailer) message(summary *Summary) (*mail.Message, error) {
	var subject, plainBody, htmlBody bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&subject, "subject", summary); err != nil {
		return nil, err
	}
	if err := m.tmpl.ExecuteTemplate(&plainBody, "plainBody", summary); err != nil {
		return nil, err
	}
	if err := m.tmpl.ExecuteTemplate(&htmlBody, "htmlBody", summary); err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", summary.Email)
	msg.SetHeader("From", m.from)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())
	return msg, nil
}

// Send implements Mailer. Delivery is attempted up to three times.
func (m *SMTPMailer) Send(ctx context.Context, summary *Summary) error {
	msg, err := m.message(summary)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = m.dialer.DialAndSend(msg); err == nil {
			m.logger.Debug("report sent", "user_id", summary.UserID, "attempt", attempt)
			return nil
		}

		m.logger.Warn("report delivery attempt failed",
			"user_id", summary.UserID,
			"attempt", attempt,
			"error", redact.Error(err))

		if attempt < sendAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.backoff):
			}
		}
	}
	return fmt.Errorf("failed to send report after %d attempts: %w", sendAttempts, err)
}
