package repository

import (
	"context"

	"digital-storefront/internal/domain/model"
)

type DownloadGrantRepository interface {
	Create(ctx context.Context, tx Tx, g *model.DownloadGrant) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.DownloadGrant, error)
}
