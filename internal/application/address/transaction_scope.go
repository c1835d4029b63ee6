package address

import (
	"context"

	"github.com/storefront/backend/internal/domain/address"
)

// TransactionScope runs address-book mutations inside one database transaction
type TransactionScope interface {
	// Execute runs fn within a transaction. A returned error rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction
type TransactionalRepositories interface {
	AddressRepo() address.Repository
}

// NoOpTransactionScope runs fn directly against the given repository
type NoOpTransactionScope struct {
	addressRepo address.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(addressRepo address.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{addressRepo: addressRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AddressRepo returns the address repository
func (s *NoOpTransactionScope) AddressRepo() address.Repository {
	return s.addressRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
