package order

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentDetails records how an order was settled. It is a tagged variant:
// Kind names the payment method and exactly the matching method-specific
// block may be set. Every variant carries the payment id and settlement time.
type PaymentDetails struct {
	Kind           PaymentMethod      `json:"kind"`
	PaymentID      string             `json:"paymentId,omitempty"`
	GatewayOrderID string             `json:"gatewayOrderId,omitempty"`
	Signature      string             `json:"signature,omitempty"`
	PaidAt         time.Time          `json:"paidAt"`
	Card           *CardDetails       `json:"card,omitempty"`
	Wallet         *WalletDetails     `json:"wallet,omitempty"`
	UPI            *UPIDetails        `json:"upi,omitempty"`
	NetBanking     *NetBankingDetails `json:"netbanking,omitempty"`
	COD            *CODDetails        `json:"cod,omitempty"`
}

// CardDetails is the card-specific part of PaymentDetails
type CardDetails struct {
	Last4   string `json:"last4,omitempty"`
	Network string `json:"network,omitempty"`
}

// WalletDetails is the wallet-specific part of PaymentDetails
type WalletDetails struct {
	Provider string `json:"provider,omitempty"`
}

// UPIDetails is the UPI-specific part of PaymentDetails
type UPIDetails struct {
	VPA string `json:"vpa,omitempty"`
}

// NetBankingDetails is the net-banking-specific part of PaymentDetails
type NetBankingDetails struct {
	Bank string `json:"bank,omitempty"`
}

// CODDetails is the cash-on-delivery part of PaymentDetails
type CODDetails struct {
	CollectedBy string `json:"collectedBy,omitempty"`
}

// GatewayCapture is the verified result of an online payment
type GatewayCapture struct {
	PaymentID      string
	GatewayOrderID string
	Signature      string
	PaidAt         time.Time
}

// NewGatewayPaymentDetails builds the variant for an online method with an empty method block
func NewGatewayPaymentDetails(method PaymentMethod, capture GatewayCapture) (PaymentDetails, error) {
	if !method.RequiresGateway() {
		return PaymentDetails{}, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method does not settle through the gateway")
	}
	if capture.PaymentID == "" {
		return PaymentDetails{}, shared.NewDomainError("INVALID_INPUT", "Payment ID is required")
	}
	d := PaymentDetails{
		Kind:           method,
		PaymentID:      capture.PaymentID,
		GatewayOrderID: capture.GatewayOrderID,
		Signature:      capture.Signature,
		PaidAt:         capture.PaidAt,
	}
	switch method {
	case PaymentMethodCard:
		d.Card = &CardDetails{}
	case PaymentMethodWallet:
		d.Wallet = &WalletDetails{}
	case PaymentMethodUPI:
		d.UPI = &UPIDetails{}
	case PaymentMethodNetBanking:
		d.NetBanking = &NetBankingDetails{}
	}
	return d, nil
}

// NewCODPaymentDetails builds the cash-on-delivery variant recorded on delivery
func NewCODPaymentDetails(reference, collectedBy string, collectedAt time.Time) PaymentDetails {
	return PaymentDetails{
		Kind:      PaymentMethodCOD,
		PaymentID: reference,
		PaidAt:    collectedAt,
		COD:       &CODDetails{CollectedBy: collectedBy},
	}
}

// Validate checks that only the block matching Kind is populated
func (d PaymentDetails) Validate() error {
	if !d.Kind.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment details kind")
	}
	set := map[PaymentMethod]bool{
		PaymentMethodCard:       d.Card != nil,
		PaymentMethodWallet:     d.Wallet != nil,
		PaymentMethodUPI:        d.UPI != nil,
		PaymentMethodNetBanking: d.NetBanking != nil,
		PaymentMethodCOD:        d.COD != nil,
	}
	for kind, present := range set {
		if present && kind != d.Kind {
			return shared.NewDomainError("INVALID_PAYMENT_DETAILS", "Payment details carry fields of another payment method")
		}
	}
	if d.PaymentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_DETAILS", "Payment details require a payment ID")
	}
	return nil
}
