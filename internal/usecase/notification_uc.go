// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/adapter"
	"digital-storefront/internal/domain/ports/repository"
	"digital-storefront/internal/infra/metrics"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// SendReceipt mails the purchase receipt with a time-limited download link.
	// At most one send per fulfillment; failures come back as ErrNotificationFailed.
	SendReceipt(ctx context.Context, to string, order *model.Order, product *model.Product, grantID string) error
	// SendOrderHistory mails the address its full purchase history with fresh
	// download grants per order.
	SendOrderHistory(ctx context.Context, email string) error
}

type notificationUC struct {
	mailer  adapter.Mailer
	signer  adapter.DownloadTokenSigner
	orders  repository.OrderRepository
	grants  repository.DownloadGrantRepository
	baseURL string
	log     *zerolog.Logger
}

func NewNotificationUseCase(
	mailer adapter.Mailer,
	signer adapter.DownloadTokenSigner,
	orders repository.OrderRepository,
	grants repository.DownloadGrantRepository,
	downloadBaseURL string,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{
		mailer:  mailer,
		signer:  signer,
		orders:  orders,
		grants:  grants,
		baseURL: strings.TrimRight(downloadBaseURL, "/"),
		log:     logger,
	}
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`
<h1>Your purchase is complete!</h1>
<p>Thanks for buying <strong>{{.ProductName}}</strong>.</p>
<p>Order {{.OrderID}} &middot; {{.Price}}</p>
<p><a href="{{.DownloadURL}}">Download your product</a></p>
<p>This link expires in 24 hours.</p>
`))

type receiptData struct {
	ProductName string
	OrderID     string
	Price       string
	DownloadURL string
}

func (n *notificationUC) SendReceipt(ctx context.Context, to string, order *model.Order, product *model.Product, grantID string) error {
	grant, err := n.grants.FindByID(ctx, repository.NoTX, grantID)
	if err != nil {
		return fmt.Errorf("%w: load grant: %v", domain.ErrNotificationFailed, err)
	}
	link, err := n.downloadLink(grant)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	var body strings.Builder
	err = receiptTmpl.Execute(&body, receiptData{
		ProductName: product.Name,
		OrderID:     order.ID,
		Price:       formatPrice(order.PriceCents),
		DownloadURL: link,
	})
	if err != nil {
		return fmt.Errorf("%w: render receipt: %v", domain.ErrNotificationFailed, err)
	}

	if err := n.mailer.Send(ctx, to, "Your purchase is complete!", body.String()); err != nil {
		metrics.IncNotificationSend(n.mailer.Name(), "failed")
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	metrics.IncNotificationSend(n.mailer.Name(), "sent")
	return nil
}

var historyTmpl = template.Must(template.New("history").Parse(`
<h1>Your order history</h1>
{{if .Items}}
<table>
<tr><th>Product</th><th>Price</th><th>Purchased</th><th></th></tr>
{{range .Items}}
<tr>
  <td>{{.ProductName}}</td>
  <td>{{.Price}}</td>
  <td>{{.Date}}</td>
  <td><a href="{{.DownloadURL}}">Download</a></td>
</tr>
{{end}}
</table>
<p>Download links expire in 24 hours.</p>
{{else}}
<p>No orders found for this address.</p>
{{end}}
`))

type historyItem struct {
	ProductName string
	Price       string
	Date        string
	DownloadURL string
}

func (n *notificationUC) SendOrderHistory(ctx context.Context, email string) error {
	summaries, err := n.orders.ListByEmail(ctx, repository.NoTX, email)
	if err != nil {
		return err
	}

	items := make([]historyItem, 0, len(summaries))
	for _, s := range summaries {
		grant := model.NewDownloadGrant(s.ProductID, time.Now())
		if err := n.grants.Create(ctx, repository.NoTX, grant); err != nil {
			return err
		}
		link, err := n.downloadLink(grant)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
		}
		items = append(items, historyItem{
			ProductName: s.ProductName,
			Price:       formatPrice(s.PriceCents),
			Date:        s.CreatedAt.Format("Jan 2, 2006"),
			DownloadURL: link,
		})
	}

	var body strings.Builder
	if err := historyTmpl.Execute(&body, struct{ Items []historyItem }{items}); err != nil {
		return fmt.Errorf("%w: render history: %v", domain.ErrNotificationFailed, err)
	}

	if err := n.mailer.Send(ctx, email, "Your order history", body.String()); err != nil {
		metrics.IncNotificationSend(n.mailer.Name(), "failed")
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}
	metrics.IncNotificationSend(n.mailer.Name(), "sent")
	n.log.Info().Int("orders", len(items)).Msg("order history mailed")
	return nil
}

func (n *notificationUC) downloadLink(grant *model.DownloadGrant) (string, error) {
	token, err := n.signer.Sign(grant.ID, grant.ProductID, grant.ExpiresAt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s?token=%s", n.baseURL, grant.ID, token), nil
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
