package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// ==================== Requests ====================

// PlaceOrderRequest is the checkout submission: a cart snapshot, the shipping
// address, the payment method and the client-computed amounts.
type PlaceOrderRequest struct {
	Items         []OrderItemInput  `json:"items" binding:"required,min=1,dive"`
	ShippingInfo  *ShippingInfoBody `json:"shippingInfo"`
	AddressID     *uuid.UUID        `json:"addressId"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,payment_method"`
	Subtotal      decimal.Decimal   `json:"subtotal" binding:"decimal_gte0"`
	ShippingCost  decimal.Decimal   `json:"shippingCost" binding:"decimal_gte0"`
	Tax           decimal.Decimal   `json:"tax" binding:"decimal_gte0"`
	Total         decimal.Decimal   `json:"total" binding:"decimal_gte0"`
}

// OrderItemInput is one submitted line
type OrderItemInput struct {
	ProductID string          `json:"productId" binding:"required,max=100"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"price" binding:"decimal_gte0"`
	Size      string          `json:"size" binding:"max=20"`
	Color     string          `json:"color" binding:"max=50"`
}

// ShippingInfoBody carries an explicit shipping address
type ShippingInfoBody struct {
	FullName      string `json:"fullName" binding:"required,max=255"`
	Phone         string `json:"phone" binding:"required,max=20"`
	PostalCode    string `json:"postalCode" binding:"required,max=10"`
	StreetAddress string `json:"streetAddress" binding:"required"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,max=100"`
	AddressType   string `json:"addressType" binding:"omitempty,address_type"`
}

// UpdateStatusRequest is an administrative fulfilment status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrderRequest is a customer cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListOrdersFilter holds paging and filter options for order listing
type ListOrdersFilter struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status        string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
}

// ==================== Responses ====================

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                   uuid.UUID             `json:"id"`
	OrderNumber          string                `json:"orderNumber"`
	UserID               uuid.UUID             `json:"userId"`
	Status               string                `json:"status"`
	PaymentMethod        string                `json:"paymentMethod"`
	PaymentStatus        string                `json:"paymentStatus"`
	PaymentDetails       *order.PaymentDetails `json:"paymentDetails,omitempty"`
	Subtotal             decimal.Decimal       `json:"subtotal"`
	ShippingCost         decimal.Decimal       `json:"shippingCost"`
	Tax                  decimal.Decimal       `json:"tax"`
	Total                decimal.Decimal       `json:"total"`
	ShippingInfo         order.ShippingInfo    `json:"shippingInfo"`
	Items                []OrderItemResponse   `json:"items"`
	ExpectedDeliveryDate time.Time             `json:"expectedDeliveryDate"`
	DeliveredAt          *time.Time            `json:"deliveredAt,omitempty"`
	CancelledAt          *time.Time            `json:"cancelledAt,omitempty"`
	CancellationReason   string                `json:"cancellationReason,omitempty"`
	PaymentFailureReason string                `json:"paymentFailureReason,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// PaymentStatusResponse is the payment view of an order
type PaymentStatusResponse struct {
	OrderID        uuid.UUID             `json:"orderId"`
	OrderNumber    string                `json:"orderNumber"`
	PaymentMethod  string                `json:"paymentMethod"`
	PaymentStatus  string                `json:"paymentStatus"`
	PaymentDetails *order.PaymentDetails `json:"paymentDetails"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Size:      it.Size,
			Color:     it.Color,
			LineTotal: it.LineTotal(),
		})
	}
	return OrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		UserID:               o.OwnerID,
		Status:               o.Status.String(),
		PaymentMethod:        o.PaymentMethod.String(),
		PaymentStatus:        o.PaymentStatus.String(),
		PaymentDetails:       o.PaymentDetails,
		Subtotal:             o.Amounts.Subtotal,
		ShippingCost:         o.Amounts.ShippingCost,
		Tax:                  o.Amounts.Tax,
		Total:                o.Amounts.Total,
		ShippingInfo:         o.ShippingInfo,
		Items:                items,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		CancellationReason:   o.CancellationReason,
		PaymentFailureReason: o.PaymentFailureReason,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ToPaymentStatusResponse converts a domain order to its payment view
func ToPaymentStatusResponse(o *order.Order) PaymentStatusResponse {
	return PaymentStatusResponse{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		PaymentMethod:  o.PaymentMethod.String(),
		PaymentStatus:  o.PaymentStatus.String(),
		PaymentDetails: o.PaymentDetails,
	}
}
