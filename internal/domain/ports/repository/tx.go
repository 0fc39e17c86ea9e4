package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. Its concrete type is infra-defined
// (pgx.Tx for Postgres); repositories must gracefully accept NoTX and use
// their non-transactional path.
type Tx interface{}

// NoTX marks a non-transactional repository call.
var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the transaction handle to repositories through tx. Keeping the
// handle opaque keeps transaction types out of use-case signatures.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
