package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs the given function in a transaction boundary, providing a UnitOfWork for repository access.
// GetRepository provides access to repositories using the transaction session.
// Example usage:
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*UserRepository)(nil)).Elem())
//	repo := repoAny.(UserRepository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// The provided function receives a UnitOfWork for repository access.
	// If the function returns an error or panics, the transaction is rolled back.
	// Calling Do on the UnitOfWork passed to fn opens a savepoint that rolls
	// back on its own without aborting the outer transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// DoReadOnly runs fn in a read-only transaction that sees a single snapshot.
	DoReadOnly(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	// Type-safe repository access methods (convenience methods)
	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
	AlertRepository() (AlertRepository, error)
}
