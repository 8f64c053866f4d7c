package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Mailer delivers a single email. Implementations must be safe for
// concurrent use by worker goroutines.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendMailer sends email through the Resend API
type ResendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewResend creates a Resend-backed mailer
func NewResend(apiKey, from string, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send delivers one email via Resend
func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	m.logger.Info().Str("message_id", sent.Id).Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

// NoopMailer logs instead of sending. Used when RESEND_API_KEY is unset
// (local development, tests).
type NoopMailer struct {
	logger zerolog.Logger
}

// NewNoop creates a mailer that only logs
func NewNoop(logger zerolog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// Send logs the would-be delivery and succeeds
func (m *NoopMailer) Send(ctx context.Context, to, subject, html string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Msg("Mail delivery disabled, skipping send")
	return nil
}

// FromConfig picks the Resend mailer when an API key is configured and
// the no-op mailer otherwise
func FromConfig(apiKey, from string, logger zerolog.Logger) Mailer {
	if apiKey == "" {
		return NewNoop(logger)
	}
	return NewResend(apiKey, from, logger)
}
