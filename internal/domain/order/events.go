package order

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypePaymentCaptured    = "PaymentCaptured"
	EventTypePaymentFailed      = "PaymentFailed"
	EventTypePaymentRefunded    = "PaymentRefunded"
)

// OrderPlacedEvent is raised when a checkout is committed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateType, o.ID, o.OwnerID),
		OrderNumber:     o.OrderNumber,
		PaymentMethod:   o.PaymentMethod,
		Total:           o.Amounts.Total,
		ItemCount:       o.ItemCount(),
	}
}

// StatusChangedEvent is raised on every fulfilment status change
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
}

// NewStatusChangedEvent creates a StatusChangedEvent
func NewStatusChangedEvent(o *Order, from, to Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateType, o.ID, o.OwnerID),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              to,
	}
}

// PaymentCapturedEvent is raised when an order becomes paid
type PaymentCapturedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewPaymentCapturedEvent creates a PaymentCapturedEvent
func NewPaymentCapturedEvent(o *Order) *PaymentCapturedEvent {
	e := &PaymentCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCaptured, AggregateType, o.ID, o.OwnerID),
		OrderNumber:     o.OrderNumber,
		PaymentMethod:   o.PaymentMethod,
		Amount:          o.Amounts.Total,
	}
	if o.PaymentDetails != nil {
		e.PaymentID = o.PaymentDetails.PaymentID
	}
	return e
}

// Payment failure reasons recorded by the system
const (
	FailureReasonSignatureMismatch = "signature mismatch"
	FailureReasonIntentExpired     = "payment intent expired"
)

// PaymentFailedEvent is raised when a payment attempt is rejected or expires
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string        `json:"order_number"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Reason        string        `json:"reason"`
}

// NewPaymentFailedEvent creates a PaymentFailedEvent
func NewPaymentFailedEvent(o *Order, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateType, o.ID, o.OwnerID),
		OrderNumber:     o.OrderNumber,
		PaymentMethod:   o.PaymentMethod,
		Reason:          reason,
	}
}

// PaymentRefundedEvent is raised when a paid order is refunded
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

// NewPaymentRefundedEvent creates a PaymentRefundedEvent
func NewPaymentRefundedEvent(o *Order, reason string) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateType, o.ID, o.OwnerID),
		OrderNumber:     o.OrderNumber,
		PaymentMethod:   o.PaymentMethod,
		Amount:          o.Amounts.Total,
		Reason:          reason,
	}
}
