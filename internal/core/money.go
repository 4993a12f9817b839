package core

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Round2 rounds d to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount returns qty × price rounded to cents.
func LineAmount(qty, price decimal.Decimal) decimal.Decimal {
	return Round2(qty.Mul(price))
}

// TaxAmount returns the tax on an already-rounded line amount.
// taxRatePct is a percentage (10 means 10%).
func TaxAmount(lineAmount, taxRatePct decimal.Decimal) decimal.Decimal {
	return Round2(lineAmount.Mul(taxRatePct).Div(hundred))
}

// LineTotal is the line amount plus its tax.
func LineTotal(lineAmount, taxAmount decimal.Decimal) decimal.Decimal {
	return lineAmount.Add(taxAmount)
}

// BaseAmount converts a transaction-currency amount into the functional currency.
// A zero or negative rate is treated as 1; ValidateExchangeRate rejects those before submit.
func BaseAmount(amount, exchangeRate decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(NormalizeExchangeRate(exchangeRate)))
}

// NormalizeExchangeRate maps an unset rate to 1.0, mirroring how blank rates are
// treated for local-currency documents.
func NormalizeExchangeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() || rate.IsNegative() {
		return one
	}
	return rate
}
