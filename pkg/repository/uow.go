package repository

import (
	"context"
	"fmt"
)

// UnitOfWork defines the contract for transactional work and repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share one store
// transaction, so everything done inside fn commits or rolls back together.
//
// Example usage:
//
//	err := uow.Do(ctx, func(uow UnitOfWork) error {
//		repo, err := Get[user.Repository](uow)
//		...
//	})
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the
	// current transaction/session. repoType is a nil pointer to the
	// repository interface, e.g. (*user.Repository)(nil).
	GetRepository(repoType any) (any, error)
}

// Get resolves the repository interface T from the unit of work.
func Get[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
