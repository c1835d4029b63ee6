package payment

import (
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/payment"
)

// Provider names accepted by NewGateway
const (
	ProviderRazorpay = "razorpay"
	ProviderMock     = "mock"
)

// GatewayOptions selects and configures the payment gateway
type GatewayOptions struct {
	Provider  string
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// NewGateway builds the gateway named by opts.Provider
func NewGateway(opts GatewayOptions) (payment.Gateway, error) {
	switch opts.Provider {
	case ProviderRazorpay:
		return NewRazorpayAdapter(&RazorpayConfig{
			KeyID:     opts.KeyID,
			KeySecret: opts.KeySecret,
			BaseURL:   opts.BaseURL,
			Timeout:   opts.Timeout,
		})
	case ProviderMock, "":
		return NewMockGateway(opts.KeySecret), nil
	default:
		return nil, fmt.Errorf("payment: unknown gateway provider %q", opts.Provider)
	}
}
