package persistence

import (
	"context"

	appaddress "github.com/storefront/backend/internal/application/address"
	appcart "github.com/storefront/backend/internal/application/cart"
	apporder "github.com/storefront/backend/internal/application/order"
	apppayment "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope runs a unit of work inside one GORM transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Cart returns the scope used by the cart service
func (s *GormTransactionScope) Cart() appcart.TransactionScope { return cartScope{s} }

// Address returns the scope used by the address service
func (s *GormTransactionScope) Address() appaddress.TransactionScope { return addressScope{s} }

// Checkout returns the scope used by the order service
func (s *GormTransactionScope) Checkout() apporder.TransactionScope { return checkoutScope{s} }

// Payment returns the scope used by the payment service
func (s *GormTransactionScope) Payment() apppayment.TransactionScope { return paymentScope{s} }

type cartScope struct{ *GormTransactionScope }

func (s cartScope) Execute(ctx context.Context, fn func(repos appcart.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type addressScope struct{ *GormTransactionScope }

func (s addressScope) Execute(ctx context.Context, fn func(repos appaddress.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type checkoutScope struct{ *GormTransactionScope }

func (s checkoutScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

type paymentScope struct{ *GormTransactionScope }

func (s paymentScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.run(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CartRepo returns the cart repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CartRepo() cart.Repository {
	return NewGormCartRepository(r.tx)
}

// AddressRepo returns the address repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AddressRepo() address.Repository {
	return NewGormAddressRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var (
	_ appcart.TransactionScope    = cartScope{}
	_ appaddress.TransactionScope = addressScope{}
	_ apporder.TransactionScope   = checkoutScope{}
	_ apppayment.TransactionScope = paymentScope{}

	_ apporder.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
