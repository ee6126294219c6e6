package repositories

import "context"

// TxFn is a unit of work run inside a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically: every repository write
// made with the context passed to fn commits together or not at all.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
