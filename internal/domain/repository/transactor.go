package repository

import "context"

// Transactor runs a function inside a single database transaction. The
// transaction is carried in the context, so repository calls made with the
// inner context share it. Any error returned by fn rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
