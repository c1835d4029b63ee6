package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartLineModel is the persistence model for a cart line.
// A principal holds at most one row per (product, size, color).
type CartLineModel struct {
	BaseModel
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_variant,priority:1"`
	ProductID string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_lines_variant,priority:2"`
	Size      string          `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_cart_lines_variant,priority:3"`
	Color     string          `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_cart_lines_variant,priority:4"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// ToDomain converts the persistence model to a domain cart Line
func (m *CartLineModel) ToDomain() *cart.Line {
	return &cart.Line{
		OwnedEntity: shared.OwnedEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			OwnerID:    m.UserID,
		},
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Size:      m.Size,
		Color:     m.Color,
	}
}

// CartLineModelFromDomain creates a persistence model from a domain cart Line
func CartLineModelFromDomain(l *cart.Line) *CartLineModel {
	m := &CartLineModel{
		UserID:    l.OwnerID,
		ProductID: l.ProductID,
		Size:      l.Size,
		Color:     l.Color,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
