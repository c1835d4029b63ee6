package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest represents a request to add a product variant to the cart.
// Price may be omitted when the variant is already in the cart.
type AddItemRequest struct {
	ProductID string           `json:"productId" binding:"required,max=100"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"price" binding:"omitempty,decimal_gte0"`
	Size      string           `json:"size" binding:"max=20"`
	Color     string           `json:"color" binding:"max=50"`
}

// UpdateQuantityRequest represents a request to change a line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// LineResponse represents a cart line in API responses
type LineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CartResponse represents the whole cart
type CartResponse struct {
	Items     []LineResponse  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ToLineResponse converts a domain cart line to a response
func ToLineResponse(l *cart.Line) LineResponse {
	return LineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Size:      l.Size,
		Color:     l.Color,
		LineTotal: l.LineTotal(),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToCartResponse converts the principal's lines to a cart response
func ToCartResponse(lines []cart.Line) CartResponse {
	items := make([]LineResponse, 0, len(lines))
	count := 0
	for i := range lines {
		items = append(items, ToLineResponse(&lines[i]))
		count += lines[i].Quantity
	}
	return CartResponse{
		Items:     items,
		ItemCount: count,
		Subtotal:  cart.Subtotal(lines),
	}
}
