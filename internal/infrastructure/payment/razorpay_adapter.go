package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/payment"
)

const (
	razorpayAPIBaseURL = "https://api.razorpay.com"
	razorpayOrdersPath = "/v1/orders"
)

var minorUnits = decimal.NewFromInt(100)

// RazorpayAdapter implements payment.Gateway on the Razorpay Orders API
type RazorpayAdapter struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

// NewRazorpayAdapter creates a new Razorpay adapter
func NewRazorpayAdapter(config *RazorpayConfig) (*RazorpayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RazorpayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name returns the gateway name
func (a *RazorpayAdapter) Name() string {
	return "razorpay"
}

// KeyID returns the public key id used by the client checkout
func (a *RazorpayAdapter) KeyID() string {
	return a.config.KeyID
}

// CreateIntent creates a Razorpay order. Amounts are sent in minor units (paise).
func (a *RazorpayAdapter) CreateIntent(ctx context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := razorpayOrderRequest{
		Amount:   req.Amount.Mul(minorUnits).Round(0).IntPart(),
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, razorpayOrdersPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var created razorpayOrder
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("%w: razorpay: failed to parse response: %v", payment.ErrGatewayFailure, err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: razorpay: response carries no order id", payment.ErrGatewayFailure)
	}

	return &payment.Intent{
		GatewayOrderID: created.ID,
		Amount:         decimal.NewFromInt(created.Amount).Div(minorUnits),
		Currency:       created.Currency,
		Receipt:        created.Receipt,
		Status:         created.Status,
		RawResponse:    string(respBody),
	}, nil
}

// VerifySignature checks the HMAC-SHA256 signature of "gatewayOrderID|paymentID"
func (a *RazorpayAdapter) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(a.config.KeySecret, gatewayOrderID, paymentID, signature)
}

// doRequest makes an authenticated API call
func (a *RazorpayAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	baseURL := razorpayAPIBaseURL
	if a.config.BaseURL != "" {
		baseURL = a.config.BaseURL
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("razorpay: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(a.config.KeyID, a.config.KeySecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay: failed to read response: %v", payment.ErrGatewayFailure, err)
	}

	if resp.StatusCode >= 400 {
		var errResp razorpayErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return nil, fmt.Errorf("%w: %s - %s", payment.ErrGatewayFailure, errResp.Error.Code, errResp.Error.Description)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayFailure, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure RazorpayAdapter implements payment.Gateway
var _ payment.Gateway = (*RazorpayAdapter)(nil)
