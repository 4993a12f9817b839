package core_test

import (
	"errors"
	"testing"

	"procure-to-pay/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs core.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	out := make([]string, len(verrs))
	for i, fe := range verrs {
		out[i] = fe.Field
	}
	return out
}

func TestValidatePurchaseOrder(t *testing.T) {
	site := 3
	valid := func() *core.PurchaseOrder {
		po := core.NewPurchaseOrder(1, "2024-01-01", "USD")
		po.SupplierSiteID = &site
		po.Lines = []core.POLine{poLine("1", "10", "5", "0")}
		core.RecomputePurchaseOrder(po, true)
		return po
	}
	assert.NoError(t, core.ValidatePurchaseOrder(valid()))

	tests := []struct {
		name   string
		mutate func(*core.PurchaseOrder)
		field  string
	}{
		{"missing supplier", func(po *core.PurchaseOrder) { po.SupplierID = 0 }, "supplier_id"},
		{"missing site", func(po *core.PurchaseOrder) { po.SupplierSiteID = nil }, "supplier_site_id"},
		{"bad date", func(po *core.PurchaseOrder) { po.PODate = "yesterday" }, "po_date"},
		{"no lines", func(po *core.PurchaseOrder) { po.Lines = nil }, "lines"},
		{"negative price", func(po *core.PurchaseOrder) { po.Lines[0].UnitPrice = dec("-1") }, "lines[0].unit_price"},
		{"tax above 100", func(po *core.PurchaseOrder) { po.Lines[0].TaxRate = dec("101") }, "lines[0].tax_rate"},
		{"zero quantity", func(po *core.PurchaseOrder) { po.Lines[0].Quantity = dec("0") }, "lines[0].quantity"},
		{"zero exchange rate", func(po *core.PurchaseOrder) { po.ExchangeRate = dec("0") }, "exchange_rate"},
		{"no item", func(po *core.PurchaseOrder) { po.Lines[0].ItemName = "" }, "lines[0].item_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			po := valid()
			tt.mutate(po)
			err := core.ValidatePurchaseOrder(po)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestValidateInvoice(t *testing.T) {
	site := 2
	inv := &core.Invoice{
		CustomerID:   9,
		BillToSiteID: &site,
		InvoiceDate:  "2024-01-10",
		DueDate:      "2024-01-05",
		CurrencyCode: "EUR",
		ExchangeRate: dec("1.1"),
		Lines:        []core.LineItem{{ItemName: "Consulting", Quantity: dec("1"), UnitPrice: dec("100")}},
	}
	assert.Contains(t, fieldsOf(t, core.ValidateInvoice(inv)), "due_date")

	inv.DueDate = "2024-02-09"
	assert.NoError(t, core.ValidateInvoice(inv))

	inv.BillToSiteID = nil
	assert.Contains(t, fieldsOf(t, core.ValidateInvoice(inv)), "bill_to_site_id")
}

func TestValidateAgreementAndRequisition(t *testing.T) {
	to := "2023-12-31"
	a := &core.PurchaseAgreement{
		SupplierID: 1, AgreementDate: "2024-01-01", EffectiveFrom: "2024-01-01", EffectiveTo: &to,
		CurrencyCode: "USD", ExchangeRate: dec("1"),
		Lines: []core.LineItem{{ItemName: "Paper", Quantity: dec("1"), UnitPrice: dec("1")}},
	}
	assert.Equal(t, []string{"effective_to"}, fieldsOf(t, core.ValidateAgreement(a)))

	r := &core.PurchaseRequisition{RequestDate: "2024-01-01", CurrencyCode: "USD", ExchangeRate: dec("1")}
	assert.ElementsMatch(t, []string{"requester_id", "lines"}, fieldsOf(t, core.ValidateRequisition(r)))
}

func TestValidationErrorsMessage(t *testing.T) {
	err := core.ValidationErrors{{Field: "a", Message: "is required"}, {Field: "b", Message: "is bad"}}
	assert.Equal(t, "validation failed: a: is required; b: is bad", err.Error())
}
