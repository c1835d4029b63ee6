package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber          string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_order_number"`
	Status               order.Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod        order.PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentStatus        order.PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentDetails       *order.PaymentDetails `gorm:"type:jsonb;serializer:json"`
	GatewayOrderRef      string                `gorm:"type:varchar(100);index"`
	IntentCreatedAt      *time.Time
	Subtotal             decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	ShippingCost         decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	Tax                  decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	Total                decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	ShippingInfo         order.ShippingInfo `gorm:"type:jsonb;serializer:json;not null"`
	ExpectedDeliveryDate time.Time          `gorm:"not null"`
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
	CancellationReason   string           `gorm:"type:varchar(500)"`
	PaymentFailureReason string           `gorm:"type:varchar(500)"`
	Items                []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		PaymentStatus:     m.PaymentStatus,
		PaymentDetails:    m.PaymentDetails,
		GatewayOrderRef:   m.GatewayOrderRef,
		IntentCreatedAt:   m.IntentCreatedAt,
		Amounts: order.Amounts{
			Subtotal:     m.Subtotal,
			ShippingCost: m.ShippingCost,
			Tax:          m.Tax,
			Total:        m.Total,
		},
		ShippingInfo:         m.ShippingInfo,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		DeliveredAt:          m.DeliveredAt,
		CancelledAt:          m.CancelledAt,
		CancellationReason:   m.CancellationReason,
		PaymentFailureReason: m.PaymentFailureReason,
		Items:                make([]order.Item, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.Status = o.Status
	m.PaymentMethod = o.PaymentMethod
	m.PaymentStatus = o.PaymentStatus
	m.PaymentDetails = o.PaymentDetails
	m.GatewayOrderRef = o.GatewayOrderRef
	m.IntentCreatedAt = o.IntentCreatedAt
	m.Subtotal = o.Amounts.Subtotal
	m.ShippingCost = o.Amounts.ShippingCost
	m.Tax = o.Amounts.Tax
	m.Total = o.Amounts.Total
	m.ShippingInfo = o.ShippingInfo
	m.ExpectedDeliveryDate = o.ExpectedDeliveryDate
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancellationReason = o.CancellationReason
	m.PaymentFailureReason = o.PaymentFailureReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderStateColumns are the mutable columns of an order. Items, amounts and
// the order number are fixed at placement and never rewritten.
var OrderStateColumns = []string{
	"status",
	"payment_status",
	"payment_details",
	"gateway_order_ref",
	"intent_created_at",
	"delivered_at",
	"cancelled_at",
	"cancellation_reason",
	"payment_failure_reason",
	"version",
	"updated_at",
}

// OrderItemModel is the persistence model for an immutable order line.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID string          `gorm:"type:varchar(100);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Size      string          `gorm:"type:varchar(20);not null;default:''"`
	Color     string          `gorm:"type:varchar(50);not null;default:''"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Size:      m.Size,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain order Item
func OrderItemModelFromDomain(it order.Item) OrderItemModel {
	return OrderItemModel{
		ID:        it.ID,
		OrderID:   it.OrderID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Size:      it.Size,
		Color:     it.Color,
		CreatedAt: it.CreatedAt,
	}
}
