package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// CreateIntentRequest opens a payment intent, optionally bound to an order
type CreateIntentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID *uuid.UUID      `json:"orderId"`
}

// IntentResponse is what the client needs to open the gateway checkout
type IntentResponse struct {
	GatewayOrderID string          `json:"gatewayOrderId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"keyId"`
	OrderID        *uuid.UUID      `json:"orderId,omitempty"`
}

// VerifyPaymentRequest carries the gateway result reported by the client
type VerifyPaymentRequest struct {
	OrderID   uuid.UUID `json:"orderId" binding:"required"`
	PaymentID string    `json:"paymentId" binding:"required,max=100"`
	Signature string    `json:"signature" binding:"required,max=256"`
}

// VerifyPaymentResponse is the outcome of a successful verification
type VerifyPaymentResponse struct {
	OrderID          uuid.UUID             `json:"orderId"`
	OrderNumber      string                `json:"orderNumber"`
	PaymentStatus    string                `json:"paymentStatus"`
	PaymentDetails   *order.PaymentDetails `json:"paymentDetails"`
	AlreadyProcessed bool                  `json:"alreadyProcessed"`
}

// RefundRequest is an administrative refund
type RefundRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RefundResponse is the order's payment state after a refund
type RefundResponse struct {
	OrderID       uuid.UUID `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	PaymentStatus string    `json:"paymentStatus"`
}

func toVerifyResponse(o *order.Order, alreadyProcessed bool) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		OrderID:          o.ID,
		OrderNumber:      o.OrderNumber,
		PaymentStatus:    o.PaymentStatus.String(),
		PaymentDetails:   o.PaymentDetails,
		AlreadyProcessed: alreadyProcessed,
	}
}
