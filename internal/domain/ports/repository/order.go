package repository

import (
	"context"

	"digital-storefront/internal/domain/model"
)

type OrderRepository interface {
	// Create inserts the order. A duplicate charge id returns
	// domain.ErrAlreadyExists (unique constraint on orders.charge_id).
	Create(ctx context.Context, tx Tx, o *model.Order) error
	FindByChargeID(ctx context.Context, tx Tx, chargeID string) (*model.Order, error)
	ListRecent(ctx context.Context, tx Tx, offset, limit int) ([]*model.OrderSummary, error)
	ListByEmail(ctx context.Context, tx Tx, email string) ([]*model.OrderSummary, error)
	CountOrders(ctx context.Context, tx Tx) (int, error)
	// SumRevenueByPeriod sums price_cents of orders created in the current
	// week/month/year (period as understood by DATE_TRUNC).
	SumRevenueByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
