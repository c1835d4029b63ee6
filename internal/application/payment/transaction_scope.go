package payment

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope runs payment state changes inside one database transaction
type TransactionScope interface {
	// Execute runs fn within a transaction. A returned error rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction
type TransactionalRepositories interface {
	OrderRepo() order.Repository
}

// NoOpTransactionScope runs fn directly against the given repository
type NoOpTransactionScope struct {
	orderRepo order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orderRepo order.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
