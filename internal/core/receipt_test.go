package core_test

import (
	"testing"

	"procure-to-pay/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftReceipt() *core.Receipt {
	return &core.Receipt{
		ReceiptNumber: "R-10",
		CustomerID:    4,
		ReceiptDate:   "2024-04-01",
		CurrencyCode:  "USD",
		ExchangeRate:  dec("1"),
		Amount:        dec("150"),
		Status:        core.ReceiptStatusDraft,
	}
}

func TestAddApplication(t *testing.T) {
	r := draftReceipt()
	require.NoError(t, core.AddApplication(r, core.ReceiptApplication{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("100")}))
	assert.True(t, r.Applications[0].ApplicationAmount.IsZero(), "an explicit zero application is kept")

	err := core.AddApplication(r, core.ReceiptApplication{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("100")})
	assert.ErrorIs(t, err, core.ErrValidation)

	err = core.AddApplication(r, core.ReceiptApplication{InvoiceID: 2, InvoiceNumber: "INV-2", AmountDue: dec("30"), ApplicationAmount: dec("30.01")})
	assert.ErrorIs(t, err, core.ErrValidation)

	require.NoError(t, core.AddApplication(r, core.ReceiptApplication{InvoiceID: 2, InvoiceNumber: "INV-2", AmountDue: dec("30"), ApplicationAmount: dec("25")}))
	assert.True(t, r.AppliedTotal().Equal(dec("25")))
	assert.Equal(t, []int{1, 2}, r.InvoiceIDs())

	core.RemoveApplication(r, 1)
	assert.Equal(t, []int{2}, r.InvoiceIDs())
	assert.NoError(t, core.ValidateReceipt(r))
}

func TestAddApplication_PaidReceiptIsClosed(t *testing.T) {
	r := draftReceipt()
	r.Status = core.ReceiptStatusPaid
	err := core.AddApplication(r, core.ReceiptApplication{InvoiceID: 1, AmountDue: dec("1")})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestRestoreOriginalAmountsDue(t *testing.T) {
	r := draftReceipt()
	r.Status = core.ReceiptStatusPaid
	r.Applications = []core.ReceiptApplication{
		{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("20"), ApplicationAmount: dec("80")},
		{InvoiceID: 2, InvoiceNumber: "INV-2", AmountDue: dec("70"), ApplicationAmount: dec("70")},
	}
	core.RestoreOriginalAmountsDue(r, map[int]decimal.Decimal{1: dec("20"), 2: decimal.Zero})

	assert.True(t, r.Applications[0].AmountDue.Equal(dec("100")))
	assert.True(t, r.Applications[1].AmountDue.Equal(dec("70")))
	r.Amount = dec("150")
	assert.NoError(t, core.ValidateReceipt(r), "applications are bounded by the original amount due")
}

func TestValidateReceipt(t *testing.T) {
	r := draftReceipt()
	r.Amount = dec("50")
	r.Applications = []core.ReceiptApplication{
		{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("40"), ApplicationAmount: dec("45")},
		{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("40"), ApplicationAmount: dec("-1")},
	}
	err := core.ValidateReceipt(r)
	require.Error(t, err)
	verrs := err.(core.ValidationErrors)
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field
	}
	assert.Contains(t, fields, "applications[0].application_amount")
	assert.Contains(t, fields, "applications[1].invoice_id")
	assert.Contains(t, fields, "applications[1].application_amount")
}

func TestValidateReceiptDraft(t *testing.T) {
	r := &core.Receipt{ReceiptNumber: "R-2", Amount: dec("10")}
	assert.NoError(t, core.ValidateReceiptDraft(r), "a draft needs no applications yet")

	r.Applications = []core.ReceiptApplication{
		{InvoiceID: 1, InvoiceNumber: "INV-1", AmountDue: dec("40"), ApplicationAmount: dec("900")},
	}
	err := core.ValidateReceiptDraft(r)
	var verrs core.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "applications[0].application_amount", verrs[0].Field)
	assert.Equal(t, "applications", verrs[1].Field)

	r.Amount = decimal.Zero
	r.Applications[0].ApplicationAmount = dec("40")
	assert.NoError(t, core.ValidateReceiptDraft(r), "the applied total is only bounded once an amount is entered")
}
