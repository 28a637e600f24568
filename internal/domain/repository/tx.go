package repository

import "context"

// TxManager runs a function inside a storage transaction. The transaction is
// carried in the context handed to fn; repositories resolve it from there, so
// every repository call made with that context joins the same transaction.
// If fn returns an error the transaction is rolled back as a unit.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
