// File: internal/usecase/fulfillment_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"digital-storefront/internal/domain"
	"digital-storefront/internal/domain/model"
	"digital-storefront/internal/domain/ports/repository"
	"digital-storefront/internal/infra/logging"
	"digital-storefront/internal/infra/metrics"
	red "digital-storefront/internal/infra/redis"
)

// Compile-time check
var _ FulfillmentUseCase = (*fulfillmentUC)(nil)

// FulfillmentResult is what a successful (or deduplicated) fulfillment hands back.
type FulfillmentResult struct {
	Order   *model.Order
	Product *model.Product
	GrantID string
	// AlreadyFulfilled marks a redelivered charge resolved to its original
	// order; callers must not send a second receipt.
	AlreadyFulfilled bool
}

type FulfillmentUseCase interface {
	// Fulfill records the order for a successful charge: account resolve-or-create,
	// order creation and download-grant issuance inside one transaction.
	// Redelivery of the same charge id returns the original result.
	Fulfill(ctx context.Context, charge model.Charge) (*FulfillmentResult, error)
}

type fulfillmentUC struct {
	products repository.ProductRepository
	accounts repository.AccountRepository
	orders   repository.OrderRepository
	grants   repository.DownloadGrantRepository
	tm       repository.TransactionManager
	locker   red.Locker // optional; trims duplicate work under concurrent redelivery
	log      *zerolog.Logger
}

func NewFulfillmentUseCase(
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	orders repository.OrderRepository,
	grants repository.DownloadGrantRepository,
	tm repository.TransactionManager,
	locker red.Locker,
	logger *zerolog.Logger,
) *fulfillmentUC {
	return &fulfillmentUC{
		products: products,
		accounts: accounts,
		orders:   orders,
		grants:   grants,
		tm:       tm,
		locker:   locker,
		log:      logger,
	}
}

func (u *fulfillmentUC) Fulfill(ctx context.Context, charge model.Charge) (*FulfillmentResult, error) {
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "FulfillmentUC.Fulfill")()

	if charge.ProductID == "" || charge.BillingEmail == "" {
		return nil, domain.ErrInvalidChargeMetadata
	}

	// Product must exist before any write; a missing product means a stale
	// event or corrupt catalog data, never a transient condition.
	product, err := u.products.FindByID(ctx, repository.NoTX, charge.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	if u.locker != nil {
		token, lockErr := u.locker.TryLock(ctx, "fulfill:charge:"+charge.ID, 30*time.Second)
		if lockErr == nil {
			defer func() { _ = u.locker.Unlock(ctx, "fulfill:charge:"+charge.ID, token) }()
		} else {
			// Proceed anyway; the unique constraint on orders.charge_id
			// still guarantees a single order.
			log.Warn().Err(lockErr).Msg("charge lock not acquired")
		}
	}

	var res *FulfillmentResult
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.orders.FindByChargeID(ctx, tx, charge.ID)
		if err == nil {
			res = &FulfillmentResult{
				Order:            existing,
				Product:          product,
				GrantID:          existing.DownloadGrantID,
				AlreadyFulfilled: true,
			}
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		account, err := u.resolveOrCreateAccount(ctx, tx, charge.BillingEmail)
		if err != nil {
			return err
		}

		now := time.Now()
		grant := model.NewDownloadGrant(product.ID, now)
		if err := u.grants.Create(ctx, tx, grant); err != nil {
			return err
		}

		order := &model.Order{
			ID:              ulid.Make().String(),
			AccountID:       account.ID,
			ProductID:       product.ID,
			ChargeID:        charge.ID,
			DownloadGrantID: grant.ID,
			PriceCents:      charge.Amount,
			CreatedAt:       now.UTC(),
		}
		if err := u.orders.Create(ctx, tx, order); err != nil {
			return err
		}

		res = &FulfillmentResult{Order: order, Product: product, GrantID: grant.ID}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the race against a concurrent delivery of the same charge.
			return u.resolveExisting(ctx, charge.ID, product)
		}
		return nil, err
	}

	if res.AlreadyFulfilled {
		metrics.IncFulfillmentDuplicate()
		log.Info().Str("order_id", res.Order.ID).Msg("charge already fulfilled")
		return res, nil
	}

	metrics.IncOrder(charge.Currency, charge.Amount)
	log.Info().
		Str("order_id", res.Order.ID).
		Str("product_id", product.ID).
		Int64("price_cents", charge.Amount).
		Msg("order fulfilled")
	return res, nil
}

// resolveOrCreateAccount is the explicit two-phase account contract: a pure
// lookup first, then an insert that converges races on the email constraint.
func (u *fulfillmentUC) resolveOrCreateAccount(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	account, err := u.accounts.FindByEmail(ctx, tx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	account = model.NewAccount(email)
	if err := u.accounts.Create(ctx, tx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (u *fulfillmentUC) resolveExisting(ctx context.Context, chargeID string, product *model.Product) (*FulfillmentResult, error) {
	existing, err := u.orders.FindByChargeID(ctx, repository.NoTX, chargeID)
	if err != nil {
		return nil, err
	}
	metrics.IncFulfillmentDuplicate()
	return &FulfillmentResult{
		Order:            existing,
		Product:          product,
		GrantID:          existing.DownloadGrantID,
		AlreadyFulfilled: true,
	}, nil
}
