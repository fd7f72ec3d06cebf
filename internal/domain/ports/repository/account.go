package repository

import (
	"context"

	"digital-storefront/internal/domain/model"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Account, error)
	// Create inserts the account. On a concurrent insert for the same email it
	// resolves to the existing row and rewrites a.ID with the canonical id, so
	// two deliveries racing on one email never produce two accounts.
	Create(ctx context.Context, tx Tx, a *model.Account) error
	CountAccounts(ctx context.Context, tx Tx) (int, error)
}
