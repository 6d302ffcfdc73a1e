package shared

import "context"

// TransactionManager runs a function inside one persistence transaction.
// Repository calls made with the context passed to fn join that
// transaction and commit or roll back together.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
