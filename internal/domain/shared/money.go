package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for monetary amounts
const MoneyScale = 2

// ErrAmountPrecision rejects amounts finer than the stored scale
var ErrAmountPrecision = NewDomainError("INVALID_AMOUNT", "Amounts cannot have more than 2 decimal places")

// FitsMoneyScale reports whether d survives storage at MoneyScale unchanged.
// Trailing zeros are fine: 1149.000 fits, 0.005 does not.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
