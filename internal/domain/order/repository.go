package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository persists orders together with their items
type Repository interface {
	// Create inserts the order row and then its items.
	// It returns ErrOrderNumberTaken when the order number collides.
	Create(ctx context.Context, o *Order) error
	// FindByIDForUser returns ErrOrderNotFound for unknown or foreign orders
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	// FindByIDForUserForUpdate is FindByIDForUser holding a row lock until the transaction ends
	FindByIDForUserForUpdate(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate locks an order regardless of owner, for administrative changes
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindByUser lists the principal's orders newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// FindStaleIntents returns pending orders whose payment intent was created before cutoff
	FindStaleIntents(ctx context.Context, cutoff time.Time, limit int) ([]Order, error)
	// SaveState persists mutable order state with an optimistic version check.
	// Items are immutable and never rewritten.
	SaveState(ctx context.Context, o *Order) error
}
