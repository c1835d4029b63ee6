package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists cart lines. Every method is scoped to the owning principal.
type Repository interface {
	// FindByUser returns the principal's lines, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Line, error)
	// FindByIDForUser returns ErrLineNotFound for unknown or foreign lines
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Line, error)
	// FindVariant returns nil, nil when the principal has no line for the variant
	FindVariant(ctx context.Context, userID uuid.UUID, productID, size, color string) (*Line, error)
	// LockByUser loads the principal's lines with a row lock held until the surrounding transaction ends
	LockByUser(ctx context.Context, userID uuid.UUID) ([]Line, error)
	Save(ctx context.Context, line *Line) error
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
	// DeleteAllForUser removes every line of the principal and returns the count
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
