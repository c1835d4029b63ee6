package cart

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
)

// TransactionScope runs cart mutations inside one database transaction
type TransactionScope interface {
	// Execute runs fn within a transaction. A returned error rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction
type TransactionalRepositories interface {
	CartRepo() cart.Repository
}

// NoOpTransactionScope runs fn directly against the given repository.
// Useful in tests that do not exercise rollback.
type NoOpTransactionScope struct {
	cartRepo cart.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(cartRepo cart.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{cartRepo: cartRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CartRepo returns the cart repository
func (s *NoOpTransactionScope) CartRepo() cart.Repository {
	return s.cartRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
