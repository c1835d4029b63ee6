package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Line is one draft line item in a principal's cart.
// A principal holds at most one line per (product, size, color) variant.
type Line struct {
	shared.OwnedEntity
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal // price snapshot taken when the line was added
	Size      string
	Color     string
}

// NewLine creates a new cart line for the principal
func NewLine(userID uuid.UUID, productID string, quantity int, unitPrice decimal.Decimal, size, color string) (*Line, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if !shared.FitsMoneyScale(unitPrice) {
		return nil, shared.ErrAmountPrecision
	}

	return &Line{
		OwnedEntity: shared.NewOwnedEntity(userID),
		ProductID:   productID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Size:        strings.TrimSpace(size),
		Color:       strings.TrimSpace(color),
	}, nil
}

// SameVariant reports whether the line holds the given product variant
func (l *Line) SameVariant(productID, size, color string) bool {
	return l.ProductID == strings.TrimSpace(productID) &&
		l.Size == strings.TrimSpace(size) &&
		l.Color == strings.TrimSpace(color)
}

// Merge adds quantity to the line and, when given, replaces the price snapshot
func (l *Line) Merge(quantity int, unitPrice *decimal.Decimal) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if unitPrice != nil {
		if unitPrice.IsNegative() {
			return ErrInvalidPrice
		}
		if !shared.FitsMoneyScale(*unitPrice) {
			return shared.ErrAmountPrecision
		}
		l.UnitPrice = *unitPrice
	}
	l.Quantity += quantity
	l.Touch()
	return nil
}

// UpdateQuantity sets an absolute quantity
func (l *Line) UpdateQuantity(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	l.Quantity = quantity
	l.Touch()
	return nil
}

// LineTotal returns quantity x unit price
func (l *Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums the totals of all lines
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineTotal())
	}
	return total
}
