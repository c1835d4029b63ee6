package order

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrOrderNotFound      = shared.NewDomainError("NOT_FOUND", "Order not found")
	ErrEmptyOrder         = shared.NewDomainError("INVALID_INPUT", "Order must contain at least one item")
	ErrInvalidQuantity    = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrInvalidPrice       = shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	ErrNegativeAmount     = shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	ErrInvalidMethod      = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	ErrOrderNumberTaken   = shared.NewDomainError("ORDER_NUMBER_CONFLICT", "Order number already in use")
	ErrIntentMissing      = shared.NewDomainError("PAYMENT_INTENT_MISSING", "No payment intent is bound to this order")
	ErrIntentNotAllowed   = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Cash on delivery orders do not take online payment")
	ErrIntentAmount       = shared.NewDomainError("INVALID_AMOUNT", "Payment amount does not match the order total")
	ErrPaymentIDConflict  = shared.NewDomainError("PAYMENT_ALREADY_CAPTURED", "Order was already paid with a different payment")
	ErrPaymentTransition  = shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "Payment status transition not allowed")
	ErrCancelNotPermitted = shared.NewDomainError("INVALID_STATE", "Order can no longer be cancelled")
)

// PriceMismatchError reports a client-supplied amount that disagrees with the server computation
func PriceMismatchError(field string, got, want decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError("PRICE_MISMATCH",
		fmt.Sprintf("%s mismatch: got %s, expected %s", field, got.String(), want.String()))
}

func paymentTransitionError(from, to PaymentStatus) *shared.DomainError {
	return shared.NewDomainError("INVALID_PAYMENT_TRANSITION",
		fmt.Sprintf("Cannot change payment status from %s to %s", from, to))
}

func statusTransitionError(from, to Status) *shared.DomainError {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot change order status from %s to %s", from, to))
}
