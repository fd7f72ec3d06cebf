package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path when calling repository methods.
var NoTX Tx

// TransactionManager executes a function inside one database transaction,
// passing the transaction handle through the `tx` argument.
//
// Use-case code composes repository calls under one WithTx so that the
// account-upsert-plus-order-creation step commits or rolls back as a unit.
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres);
// repositories must gracefully accept NoTX for the non-transactional path.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
