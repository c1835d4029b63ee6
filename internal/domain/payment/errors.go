package payment

import "github.com/storefront/backend/internal/domain/shared"

var (
	ErrInvalidAmount     = shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	ErrInvalidCurrency   = shared.NewDomainError("INVALID_INPUT", "Currency is required")
	ErrSignatureMismatch = shared.NewDomainError("SIGNATURE_MISMATCH", "Payment signature verification failed")
	ErrGatewayFailure    = shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment gateway request failed")
)
