package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
)

var _ repository.DownloadGrantRepository = (*downloadGrantRepo)(nil)

type downloadGrantRepo struct{ pool *pgxpool.Pool }

func NewDownloadGrantRepo(pool *pgxpool.Pool) *downloadGrantRepo {
	return &downloadGrantRepo{pool: pool}
}

func (r *downloadGrantRepo) Create(ctx context.Context, tx repository.Tx, g *model.DownloadGrant) error {
	const q = `
INSERT INTO download_grants (id, product_id, created_at, expires_at)
VALUES ($1,$2,$3,$4);`
	_, err := execSQL(ctx, r.pool, tx, q, g.ID, g.ProductID, g.CreatedAt, g.ExpiresAt)
	return err
}

func (r *downloadGrantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.DownloadGrant, error) {
	const q = `SELECT id, product_id, created_at, expires_at FROM download_grants WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	g := &model.DownloadGrant{}
	if err := row.Scan(&g.ID, &g.ProductID, &g.CreatedAt, &g.ExpiresAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return g, nil
}
