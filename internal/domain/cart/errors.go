package cart

import "github.com/storefront/backend/internal/domain/shared"

var (
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrInvalidPrice    = shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	ErrPriceRequired   = shared.NewDomainError("PRICE_REQUIRED", "Price is required for a new cart item")
	ErrLineNotFound    = shared.NewDomainError("NOT_FOUND", "Cart item not found")
)
