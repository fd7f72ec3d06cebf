package email

import (
	"context"

	"digital-storefront/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.Mailer = (*NoopMailer)(nil)

// NoopMailer logs instead of sending. Used in dev mode when no provider
// credential is configured.
type NoopMailer struct {
	log *zerolog.Logger
}

func NewNoopMailer(logger *zerolog.Logger) *NoopMailer {
	return &NoopMailer{log: logger}
}

func (m *NoopMailer) Name() string { return "noop" }

func (m *NoopMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(htmlBody)).
		Msg("noop mailer: drop email")
	return nil
}
