package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/payment"
)

// MockGateway is an offline gateway for development and end-to-end tests.
// Signatures use the same HMAC scheme as Razorpay with a local secret,
// so clients can produce valid ones with SignPayment.
type MockGateway struct {
	secret string
}

// NewMockGateway creates a MockGateway signing with secret
func NewMockGateway(secret string) *MockGateway {
	if secret == "" {
		secret = "mock_secret"
	}
	return &MockGateway{secret: secret}
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// KeyID returns a placeholder public key
func (g *MockGateway) KeyID() string {
	return "mock_key"
}

// CreateIntent returns a locally generated order id without any network call
func (g *MockGateway) CreateIntent(_ context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &payment.Intent{
		GatewayOrderID: "order_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		Amount:         req.Amount,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		Status:         "created",
	}, nil
}

// VerifySignature checks the HMAC signature against the local secret
func (g *MockGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(g.secret, gatewayOrderID, paymentID, signature)
}

// Sign produces the signature a real checkout would return for the payment
func (g *MockGateway) Sign(gatewayOrderID, paymentID string) string {
	return SignPayment(g.secret, gatewayOrderID, paymentID)
}

// Ensure MockGateway implements payment.Gateway
var _ payment.Gateway = (*MockGateway)(nil)
