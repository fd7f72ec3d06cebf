package usecase

import (
	"context"

	"digital-storefront/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// Totals returns overall order and account counts.
	Totals(ctx context.Context) (orders int, accounts int, err error)
	// Revenue returns summed order value for the current week, month and year.
	Revenue(ctx context.Context) (week, month, year int64, err error)
}

type statsUC struct {
	orders   repository.OrderRepository
	accounts repository.AccountRepository
}

func NewStatsUseCase(orders repository.OrderRepository, accounts repository.AccountRepository) *statsUC {
	return &statsUC{orders: orders, accounts: accounts}
}

func (u *statsUC) Totals(ctx context.Context) (int, int, error) {
	orders, err := u.orders.CountOrders(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	accounts, err := u.accounts.CountAccounts(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	return orders, accounts, nil
}

func (u *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	week, err := u.orders.SumRevenueByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err := u.orders.SumRevenueByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err := u.orders.SumRevenueByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return week, month, year, nil
}
