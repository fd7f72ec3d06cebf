package repository

import (
	"context"

	"digital-storefront/internal/domain/model"
)

type ProductRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	ListAvailable(ctx context.Context, tx Tx) ([]*model.Product, error)
	// Save upserts; used by seeding and catalog tooling, not the webhook flow.
	Save(ctx context.Context, tx Tx, p *model.Product) error
}
