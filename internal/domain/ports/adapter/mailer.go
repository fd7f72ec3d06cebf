package adapter

import (
	"context"
	"time"
)

// Mailer is the hex port for the notification collaborator.
// Delivery failures are the caller's to classify; implementations just report them.
type Mailer interface {
	Name() string
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// DownloadTokenSigner mints the signed token embedded in download links.
// Verify exists for the token round-trip tests and ops tooling; the external
// download server holds the same secret and does the real enforcement.
type DownloadTokenSigner interface {
	Sign(grantID, productID string, expiresAt time.Time) (string, error)
	Verify(token string) (grantID string, productID string, err error)
}
