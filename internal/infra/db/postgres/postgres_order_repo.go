package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, account_id, product_id, charge_id, download_grant_id, price_cents, created_at`

func (r *orderRepo) Create(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7);`
	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.AccountID, o.ProductID, o.ChargeID, o.DownloadGrantID, o.PriceCents, o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		// Transient storage errors surface unmodified so callers can map them
		// to a retryable status.
		return err
	}
	return nil
}

func (r *orderRepo) FindByChargeID(ctx context.Context, tx repository.Tx, chargeID string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE charge_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, chargeID)
	if err != nil {
		return nil, err
	}

	o := &model.Order{}
	if err := row.Scan(&o.ID, &o.AccountID, &o.ProductID, &o.ChargeID, &o.DownloadGrantID, &o.PriceCents, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

const orderSummarySelect = `
SELECT o.id, o.product_id, p.name, a.email, o.price_cents, o.created_at
  FROM orders o
  JOIN products p ON p.id = o.product_id
  JOIN accounts a ON a.id = o.account_id`

func (r *orderRepo) ListRecent(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = orderSummarySelect + `
 ORDER BY o.created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return scanOrderSummaries(rows)
}

func (r *orderRepo) ListByEmail(ctx context.Context, tx repository.Tx, email string) ([]*model.OrderSummary, error) {
	const q = orderSummarySelect + `
 WHERE a.email=$1 ORDER BY o.created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanOrderSummaries(rows)
}

func scanOrderSummaries(rows pgx.Rows) ([]*model.OrderSummary, error) {
	defer rows.Close()
	var out []*model.OrderSummary
	for rows.Next() {
		s := &model.OrderSummary{}
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.Email, &s.PriceCents, &s.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *orderRepo) CountOrders(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM orders;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *orderRepo) SumRevenueByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(price_cents),0) FROM orders WHERE created_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
