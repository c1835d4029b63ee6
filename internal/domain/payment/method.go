package payment

import "github.com/storefront/backend/internal/domain/order"

// MethodInfo describes a payment method offered at checkout
type MethodInfo struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Online      bool                `json:"online"`
}

var methodCatalog = map[order.PaymentMethod]MethodInfo{
	order.PaymentMethodCard: {
		Name:        "Credit/Debit Card",
		Description: "Visa, Mastercard, RuPay and American Express",
	},
	order.PaymentMethodUPI: {
		Name:        "UPI",
		Description: "Pay with any UPI app",
	},
	order.PaymentMethodNetBanking: {
		Name:        "Net Banking",
		Description: "All major banks supported",
	},
	order.PaymentMethodWallet: {
		Name:        "Wallet",
		Description: "Paytm, PhonePe, Amazon Pay and more",
	},
	order.PaymentMethodCOD: {
		Name:        "Cash on Delivery",
		Description: "Pay when your order arrives",
	},
}

// Methods returns the supported payment methods in display order
func Methods() []MethodInfo {
	out := make([]MethodInfo, 0, len(order.AllPaymentMethods))
	for _, m := range order.AllPaymentMethods {
		info := methodCatalog[m]
		info.ID = m
		info.Online = m.RequiresGateway()
		out = append(out, info)
	}
	return out
}

// VerifyKey is the idempotency key under which a committed capture is recorded
func VerifyKey(orderID, paymentID string) string {
	return "payment:verify:" + orderID + ":" + paymentID
}
