package rollup

import "github.com/shopspring/decimal"

// SafeDiv returns num/den, or zero when den is zero
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent returns num/den*100, or zero when den is zero
func Percent(num, den decimal.Decimal) decimal.Decimal {
	return SafeDiv(num, den).Shift(2)
}

// GainPercent returns gain as a percentage of cost. A cost basis that is
// not positive has no meaningful return, so it yields zero.
func GainPercent(gain, cost decimal.Decimal) decimal.Decimal {
	if cost.Sign() <= 0 {
		return decimal.Zero
	}
	return Percent(gain, cost)
}
