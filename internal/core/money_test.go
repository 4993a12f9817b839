package core_test

import (
	"testing"

	"procure-to-pay/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineArithmetic(t *testing.T) {
	tests := []struct {
		name       string
		qty, price string
		rate       string
		wantAmount string
		wantTax    string
	}{
		{"whole numbers", "10", "5", "10", "50", "5"},
		{"rounds half away from zero", "3", "0.335", "0", "1.01", "0"},
		{"tax rounds on rounded amount", "1", "9.99", "7.5", "9.99", "0.75"},
		{"zero quantity", "0", "12.50", "18", "0", "0"},
		{"full tax", "2", "2.25", "100", "4.5", "4.5"},
		{"fractional quantity", "2.5", "3.333", "5", "8.33", "0.42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := core.LineAmount(dec(tt.qty), dec(tt.price))
			tax := core.TaxAmount(amount, dec(tt.rate))
			assert.True(t, amount.Equal(dec(tt.wantAmount)), "amount: got %s", amount)
			assert.True(t, tax.Equal(dec(tt.wantTax)), "tax: got %s", tax)
			assert.True(t, core.LineTotal(amount, tax).Equal(amount.Add(tax)))
		})
	}
}

func TestLineItemRecomputeIsIdempotent(t *testing.T) {
	l := core.LineItem{Quantity: dec("7"), UnitPrice: dec("1.115"), TaxRate: dec("12.5")}
	l.Recompute()
	first := l
	for i := 0; i < 3; i++ {
		l.Recompute()
	}
	assert.True(t, l.LineAmount.Equal(first.LineAmount))
	assert.True(t, l.TaxAmount.Equal(first.TaxAmount))
	assert.True(t, l.Total().Equal(dec("8.79")), "total: got %s", l.Total())
}

func TestBaseAmount(t *testing.T) {
	assert.True(t, core.BaseAmount(dec("100"), dec("83.5")).Equal(dec("8350")))
	assert.True(t, core.BaseAmount(dec("12.34"), decimal.Zero).Equal(dec("12.34")), "zero rate treated as 1")
}
