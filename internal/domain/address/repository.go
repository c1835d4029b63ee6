package address

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists addresses. Every method is scoped to the owning principal.
type Repository interface {
	// FindByUser returns the principal's addresses, default first then newest
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	// LockByUser loads the principal's addresses holding row locks until the transaction ends
	LockByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	// FindByIDForUser returns ErrAddressNotFound for unknown or foreign addresses
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Address, error)
	Save(ctx context.Context, addr *Address) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
}
