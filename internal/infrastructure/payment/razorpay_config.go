package payment

import (
	"errors"
	"time"
)

// RazorpayConfig contains the credentials for the Razorpay Orders API
type RazorpayConfig struct {
	// KeyID is the public key id, also handed to the client checkout
	KeyID string
	// KeySecret signs API calls and payment signatures
	KeySecret string
	// BaseURL overrides the API endpoint (tests, proxies)
	BaseURL string
	// Timeout bounds every API call. Default: 30s
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrRazorpayMissingKeyID     = errors.New("razorpay: missing key id")
	ErrRazorpayMissingKeySecret = errors.New("razorpay: missing key secret")
)

// Validate validates the configuration
func (c *RazorpayConfig) Validate() error {
	if c.KeyID == "" {
		return ErrRazorpayMissingKeyID
	}
	if c.KeySecret == "" {
		return ErrRazorpayMissingKeySecret
	}
	return nil
}
