package core_test

import (
	"math/rand"
	"testing"

	"procure-to-pay/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poLine(qty, price, rate, received string) core.POLine {
	return core.POLine{
		LineItem:         core.LineItem{ItemName: "Item", Quantity: dec(qty), UnitPrice: dec(price), TaxRate: dec(rate)},
		QuantityReceived: dec(received),
	}
}

func TestRecomputePurchaseOrder_NewOrder(t *testing.T) {
	po := core.NewPurchaseOrder(1, "2024-01-01", "USD")
	po.Lines = []core.POLine{poLine("10", "5", "10", "0")}

	core.RecomputePurchaseOrder(po, true)

	assert.True(t, po.Lines[0].LineAmount.Equal(dec("50")))
	assert.True(t, po.Lines[0].TaxAmount.Equal(dec("5")))
	assert.True(t, po.TotalAmount.Equal(dec("55")))
	assert.True(t, po.AmountRemaining.IsZero(), "new orders have nothing received")
	assert.True(t, po.Lines[0].QuantityRemaining.Equal(dec("10")))
}

func TestRecomputePurchaseOrder_ExistingOrderTracksReceipts(t *testing.T) {
	po := core.NewPurchaseOrder(1, "2024-01-01", "USD")
	po.Lines = []core.POLine{poLine("10", "5", "10", "4"), poLine("2", "3.335", "0", "0")}

	core.RecomputePurchaseOrder(po, false)

	assert.True(t, po.TotalAmount.Equal(dec("61.67")), "total: %s", po.TotalAmount)
	assert.True(t, po.AmountRemaining.Equal(dec("41.67")), "remaining: %s", po.AmountRemaining)
	assert.True(t, po.Lines[0].QuantityRemaining.Equal(dec("6")))
}

func TestRecomputePurchaseOrder_OverReceiptIsNotClamped(t *testing.T) {
	po := core.NewPurchaseOrder(1, "2024-01-01", "USD")
	one := 1
	po.SupplierSiteID = &one
	po.Lines = []core.POLine{poLine("2", "1", "0", "3")}
	core.RecomputePurchaseOrder(po, false)

	assert.True(t, po.Lines[0].QuantityRemaining.Equal(dec("-1")))
	assert.ErrorIs(t, core.ValidatePurchaseOrder(po), core.ErrValidation)
}

func TestHeaderTotalIsIndependentOfEditOrder(t *testing.T) {
	base := []core.LineItem{
		{ItemName: "a", Quantity: dec("3"), UnitPrice: dec("1.005"), TaxRate: dec("7")},
		{ItemName: "b", Quantity: dec("1"), UnitPrice: dec("99.99"), TaxRate: dec("20")},
		{ItemName: "c", Quantity: dec("12"), UnitPrice: dec("0.333"), TaxRate: dec("0")},
		{ItemName: "d", Quantity: dec("5"), UnitPrice: dec("4.4"), TaxRate: dec("15")},
	}
	reference := &core.PurchaseRequisition{Lines: append([]core.LineItem(nil), base...)}
	core.RecomputeRequisition(reference)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.LineItem(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		r := &core.PurchaseRequisition{Lines: shuffled}
		core.RecomputeRequisition(r)
		require.True(t, r.TotalAmount.Equal(reference.TotalAmount), "order %d: %s != %s", i, r.TotalAmount, reference.TotalAmount)
	}
}

func TestRecomputeAfterLineDeletion(t *testing.T) {
	inv := &core.Invoice{Lines: []core.LineItem{
		{ItemName: "a", Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("10")},
		{ItemName: "b", Quantity: dec("1"), UnitPrice: dec("20"), TaxRate: dec("10")},
	}}
	core.RecomputeInvoice(inv, true)
	assert.True(t, inv.TotalAmount.Equal(dec("33")))
	assert.True(t, inv.AmountDue.Equal(dec("33")))

	inv.Lines = inv.Lines[1:]
	core.RecomputeInvoice(inv, false)
	assert.True(t, inv.TotalAmount.Equal(dec("22")))
	assert.Equal(t, 1, inv.Lines[0].LineNumber)
	assert.True(t, inv.AmountDue.Equal(dec("33")), "existing invoices keep the backend's amount due")
}

func TestRecomputeAgreement(t *testing.T) {
	a := &core.PurchaseAgreement{ExchangeRate: dec("2"), Lines: []core.LineItem{
		{ItemName: "service", Quantity: dec("12"), UnitPrice: dec("100"), TaxRate: dec("5")},
	}}
	core.RecomputeAgreement(a, true)
	assert.True(t, a.TotalAmount.Equal(dec("1260")))
	assert.True(t, a.AmountRemaining.Equal(a.TotalAmount))
	assert.True(t, a.TotalBase.Equal(dec("2520")))

	a.AmountRemaining = dec("300")
	core.RecomputeAgreement(a, false)
	assert.True(t, a.AmountRemaining.Equal(dec("300")))
}

// End to end: PO 10 × 5 at 10% tax, approve, receive and accept everything.
func TestPurchaseOrderToGRNScenario(t *testing.T) {
	po := core.NewPurchaseOrder(3, "2024-05-01", "USD")
	po.ID = 100
	po.Lines = []core.POLine{{ID: 9, LineItem: core.LineItem{ItemName: "Widget", Quantity: dec("10"), UnitPrice: dec("5"), TaxRate: dec("10")}}}
	core.RecomputePurchaseOrder(po, true)
	require.True(t, po.TotalAmount.Equal(dec("55")))

	require.False(t, core.CanCreateGRN(po))
	require.NoError(t, core.DecidePOApproval(po, core.ApprovalApproved))
	assert.Equal(t, core.POStatusDraft, po.Status, "approval does not move the status axis")

	g, err := core.NewGRNFromPurchaseOrder(po, "2024-05-10")
	require.NoError(t, err)
	g.Lines[0], err = core.ApplyGRNEdit(g.Lines[0], core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("10")})
	require.NoError(t, err)
	require.Equal(t, core.GRNLineRejected, g.Lines[0].Status)
	g.Lines[0], err = core.ApplyGRNEdit(g.Lines[0], core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, core.GRNLineRejected, g.Lines[0].Status, "a line that left DRAFT is not re-derived")
	g.Lines[0], err = core.ApplyGRNEdit(g.Lines[0], core.GRNEdit{Field: core.GRNFieldStatus, Status: core.GRNLineAccepted})
	require.NoError(t, err)
	core.RecomputeGRN(g)

	assert.True(t, g.Lines[0].LineAmount.Equal(dec("50")))
	assert.True(t, g.Lines[0].TaxAmount.Equal(dec("5")))
	assert.True(t, g.TotalAmount.Equal(dec("55")))
	assert.Equal(t, core.GRNLineAccepted, g.Lines[0].Status)
	assert.NoError(t, core.ValidateGRN(g))
}
