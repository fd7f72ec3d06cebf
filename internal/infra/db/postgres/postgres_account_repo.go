package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct{ pool *pgxpool.Pool }

func NewAccountRepo(pool *pgxpool.Pool) *accountRepo {
	return &accountRepo{pool: pool}
}

func (r *accountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	const q = `SELECT id, email, created_at, updated_at FROM accounts WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}

	a := &model.Account{}
	if err := row.Scan(&a.ID, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

// Create inserts the account, resolving email races to the existing row.
// The ON CONFLICT arm updates updated_at only, and RETURNING hands back the
// canonical id either way, so concurrent deliveries for one email converge
// on a single account.
func (r *accountRepo) Create(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, email, created_at, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (email) DO UPDATE SET updated_at=$4
RETURNING id, created_at;`
	row, err := pickRow(ctx, r.pool, tx, q, a.ID, a.Email, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return domain.ErrReadDatabaseRow
	}
	return nil
}

func (r *accountRepo) CountAccounts(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM accounts;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
