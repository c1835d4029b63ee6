package order

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Amounts is the monetary breakdown of an order
type Amounts struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// ExpectedTotal returns subtotal + shippingCost + tax
func (a Amounts) ExpectedTotal() decimal.Decimal {
	return a.Subtotal.Add(a.ShippingCost).Add(a.Tax)
}

// Verify checks that every amount is non-negative and storable at
// shared.MoneyScale, and that the submitted total agrees with
// subtotal + shippingCost + tax within epsilon.
// A mismatch is rejected, never corrected.
func (a Amounts) Verify(epsilon decimal.Decimal) error {
	all := []decimal.Decimal{a.Subtotal, a.ShippingCost, a.Tax, a.Total}
	for _, d := range all {
		if d.IsNegative() {
			return ErrNegativeAmount
		}
	}
	for _, d := range all {
		if !shared.FitsMoneyScale(d) {
			return shared.ErrAmountPrecision
		}
	}
	expected := a.ExpectedTotal()
	if a.Total.Sub(expected).Abs().GreaterThan(epsilon) {
		return PriceMismatchError("total", a.Total, expected)
	}
	return nil
}

// VerifySubtotal checks the submitted subtotal against the sum of the line items
func (a Amounts) VerifySubtotal(items []ItemInput, epsilon decimal.Decimal) error {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if a.Subtotal.Sub(sum).Abs().GreaterThan(epsilon) {
		return PriceMismatchError("subtotal", a.Subtotal, sum)
	}
	return nil
}
