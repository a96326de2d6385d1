package ports

import "context"

// Tx is an opaque transaction handle owned by the persistence adapter
// (for gorm it is *gorm.DB).
type Tx interface{}

// UnitOfWork runs fn inside one transaction: an error rolls back, nil commits.
// Repositories called with the ctx passed to fn join that transaction.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
