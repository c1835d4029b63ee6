package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// IntentRequest asks the gateway to open a payment intent
type IntentRequest struct {
	// Amount in major units; adapters convert to the gateway's minor units
	Amount   decimal.Decimal
	Currency string
	// Receipt is our reference shown in the gateway dashboard, usually the order number
	Receipt string
	OrderID uuid.UUID
	Notes   map[string]string
}

// Validate validates the intent request
func (r *IntentRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !shared.FitsMoneyScale(r.Amount) {
		return shared.ErrAmountPrecision
	}
	if r.Currency == "" {
		return ErrInvalidCurrency
	}
	return nil
}

// Intent is the gateway's answer to IntentRequest
type Intent struct {
	// GatewayOrderID is the correlation token the client pays against
	GatewayOrderID string
	Amount         decimal.Decimal
	Currency       string
	Receipt        string
	Status         string
	RawResponse    string
}

// Gateway defines the port interface for the external payment gateway.
// Concrete adapters live in the infrastructure layer.
type Gateway interface {
	// Name identifies the adapter in logs and metrics
	Name() string

	// KeyID is the public key the client needs to open the checkout widget
	KeyID() string

	// CreateIntent opens a payment intent
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)

	// VerifySignature checks the signature the client received on completion.
	// It never returns an error; a bad or malformed signature yields false.
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}
