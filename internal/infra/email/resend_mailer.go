// File: internal/infra/email/resend_mailer.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"digital-storefront/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*ResendMailer)(nil)

// ResendMailer implements adapter.Mailer against the Resend REST API.
type ResendMailer struct {
	apiKey   string
	sender   string // "Support <support@example.com>" style From address
	endpoint string
	client   *http.Client
}

func NewResendMailer(apiKey, sender string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key empty")
	}
	if sender == "" {
		return nil, errors.New("sender address empty")
	}
	return &ResendMailer{
		apiKey:   apiKey,
		sender:   sender,
		endpoint: "https://api.resend.com/emails",
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// SetEndpoint overrides the API endpoint, used by tests.
func (m *ResendMailer) SetEndpoint(url string) { m.endpoint = url }

func (m *ResendMailer) Name() string { return "resend" }

func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := map[string]any{
		"from":    m.sender,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
