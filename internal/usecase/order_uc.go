package usecase

import (
	"context"
	"strings"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

type OrderUseCase interface {
	ListRecent(ctx context.Context, offset, limit int) ([]*model.OrderSummary, error)
	// EmailHistory triggers an order-history mail for the given address.
	EmailHistory(ctx context.Context, email string) error
}

type orderUC struct {
	orders  repository.OrderRepository
	notifUC NotificationUseCase
}

func NewOrderUseCase(orders repository.OrderRepository, notifUC NotificationUseCase) *orderUC {
	return &orderUC{orders: orders, notifUC: notifUC}
}

func (u *orderUC) ListRecent(ctx context.Context, offset, limit int) ([]*model.OrderSummary, error) {
	return u.orders.ListRecent(ctx, repository.NoTX, offset, limit)
}

func (u *orderUC) EmailHistory(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ErrInvalidArgument
	}
	return u.notifUC.SendOrderHistory(ctx, email)
}
