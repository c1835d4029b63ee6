package order

import (
	"context"

	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories touched by checkout.
// Order rows, order items and the cart deletion commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a transaction. A returned error rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction
type TransactionalRepositories interface {
	OrderRepo() order.Repository
	CartRepo() cart.Repository
	AddressRepo() address.Repository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction
type NoOpTransactionScope struct {
	orderRepo   order.Repository
	cartRepo    cart.Repository
	addressRepo address.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(orderRepo order.Repository, cartRepo cart.Repository, addressRepo address.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.Repository { return s.orderRepo }

// CartRepo returns the cart repository
func (s *NoOpTransactionScope) CartRepo() cart.Repository { return s.cartRepo }

// AddressRepo returns the address repository
func (s *NoOpTransactionScope) AddressRepo() address.Repository { return s.addressRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
