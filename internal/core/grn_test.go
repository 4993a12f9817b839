package core_test

import (
	"errors"
	"testing"

	"procure-to-pay/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGRNLine(ordered, price, rate string) core.GRNLine {
	return core.GRNLine{
		LineItem:        core.LineItem{ItemName: "Widget", UnitPrice: dec(price), TaxRate: dec(rate)},
		QuantityOrdered: dec(ordered),
		Status:          core.GRNLineDraft,
	}
}

func assertTriangle(t *testing.T, l core.GRNLine) {
	t.Helper()
	assert.True(t, l.QuantityReceived.Equal(l.QuantityAccepted.Add(l.QuantityRejected)),
		"received %s != accepted %s + rejected %s", l.QuantityReceived, l.QuantityAccepted, l.QuantityRejected)
	assert.False(t, l.QuantityRejected.IsNegative())
}

func TestApplyGRNEdit_TriangleHoldsAcrossEdits(t *testing.T) {
	line := newGRNLine("20", "4", "0")
	edits := []core.GRNEdit{
		{Field: core.GRNFieldReceived, Value: dec("10")},
		{Field: core.GRNFieldAccepted, Value: dec("7")},
		{Field: core.GRNFieldRejected, Value: dec("5")},
		{Field: core.GRNFieldAccepted, Value: dec("12")},
		{Field: core.GRNFieldReceived, Value: dec("12")},
		{Field: core.GRNFieldAccepted, Value: dec("30")}, // refused: above received
		{Field: core.GRNFieldReceived, Value: dec("1")},  // refused: below accepted
		{Field: core.GRNFieldRejected, Value: dec("0")},
	}
	for _, e := range edits {
		next, err := core.ApplyGRNEdit(line, e)
		if err != nil {
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, line, next, "refused edit must not change the line")
		}
		line = next
		assertTriangle(t, line)
	}
	assert.True(t, line.QuantityAccepted.Equal(dec("12")))
	assert.True(t, line.QuantityReceived.Equal(dec("12")))
}

func TestApplyGRNEdit_RejectedDrivesReceived(t *testing.T) {
	line := newGRNLine("10", "5", "10")
	line, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("6")})
	require.NoError(t, err)
	line, err = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("6")})
	require.NoError(t, err)

	line, err = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldRejected, Value: dec("2")})
	require.NoError(t, err)
	assert.True(t, line.QuantityReceived.Equal(dec("8")))
	assert.True(t, line.QuantityAccepted.Equal(dec("6")), "accepted is not touched by a rejected edit")
}

func TestApplyGRNEdit_PricesOnAcceptedQuantity(t *testing.T) {
	line := newGRNLine("10", "5", "10")
	line, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("10")})
	require.NoError(t, err)
	assert.True(t, line.LineAmount.IsZero(), "nothing accepted yet")

	line, err = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("8")})
	require.NoError(t, err)
	assert.True(t, line.LineAmount.Equal(dec("40")))
	assert.True(t, line.TaxAmount.Equal(dec("4")))
	assert.True(t, line.QuantityRejected.Equal(dec("2")))
}

func TestApplyGRNEdit_AutoStatus(t *testing.T) {
	t.Run("received without acceptance", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("5")})
		assert.Equal(t, core.GRNLineRejected, line.Status)
	})
	t.Run("full acceptance from draft", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldRejected, Value: dec("0")})
		assert.Equal(t, core.GRNLineDraft, line.Status)
		line.QuantityReceived = dec("5")
		line, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("5")})
		require.NoError(t, err)
		assert.Equal(t, core.GRNLineAccepted, line.Status)
	})
	t.Run("accepted line stays accepted", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line.QuantityReceived = dec("5")
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("5")})
		require.Equal(t, core.GRNLineAccepted, line.Status)

		line, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("0")})
		require.NoError(t, err)
		assert.True(t, line.QuantityRejected.Equal(dec("5")))
		assert.Equal(t, core.GRNLineAccepted, line.Status, "only DRAFT lines are derived")
	})
	t.Run("rejected line stays rejected", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("5")})
		require.Equal(t, core.GRNLineRejected, line.Status)

		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldAccepted, Value: dec("5")})
		assert.Equal(t, core.GRNLineRejected, line.Status)
	})
	t.Run("mixed outcome leaves draft", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line.QuantityReceived = dec("5")
		line.QuantityAccepted = dec("3")
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldRejected, Value: dec("2")})
		assert.Equal(t, core.GRNLineDraft, line.Status)
	})
	t.Run("manual status wins", func(t *testing.T) {
		line := newGRNLine("5", "1", "0")
		line, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldStatus, Status: core.GRNLineDraft})
		require.NoError(t, err)
		assert.True(t, line.StatusLocked)
		line, _ = core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldRejected, Value: dec("4")})
		assert.Equal(t, core.GRNLineDraft, line.Status, "auto derivation is suppressed after a manual edit")
	})
}

func TestApplyGRNEdit_RejectsNegative(t *testing.T) {
	line := newGRNLine("5", "1", "0")
	_, err := core.ApplyGRNEdit(line, core.GRNEdit{Field: core.GRNFieldReceived, Value: dec("-1")})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestValidateGRN_AcceptedPlusRejectedExceedsOrdered(t *testing.T) {
	line := newGRNLine("10", "5", "10")
	line.QuantityAccepted = dec("8")
	line.QuantityRejected = dec("4")
	line.QuantityReceived = dec("12")
	g := &core.GRN{POHeaderID: 1, SupplierID: 2, ReceiptDate: "2024-03-01", Lines: []core.GRNLine{line}}

	err := core.ValidateGRN(g)
	require.Error(t, err)
	var verrs core.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "lines[0].quantity_accepted", verrs[0].Field)
}

func TestNewGRNFromPurchaseOrder(t *testing.T) {
	po := core.NewPurchaseOrder(7, "2024-03-01", "USD")
	po.ID = 11
	po.PONumber = "PO-11"
	po.Lines = []core.POLine{
		{ID: 1, LineItem: core.LineItem{ItemName: "Bolt", Quantity: dec("10"), UnitPrice: dec("2"), TaxRate: dec("5")}, QuantityReceived: dec("4")},
		{ID: 2, LineItem: core.LineItem{ItemName: "Nut", Quantity: dec("3"), UnitPrice: dec("1")}, QuantityReceived: dec("3")},
	}

	_, err := core.NewGRNFromPurchaseOrder(po, "2024-03-05")
	require.Error(t, err, "PENDING approval must block receiving")
	assert.ErrorIs(t, err, core.ErrValidation)

	require.NoError(t, core.DecidePOApproval(po, core.ApprovalApproved))
	g, err := core.NewGRNFromPurchaseOrder(po, "2024-03-05")
	require.NoError(t, err)
	require.Len(t, g.Lines, 1, "fully received lines are skipped")
	assert.True(t, g.Lines[0].QuantityOrdered.Equal(dec("6")))
	assert.Equal(t, 1, *g.Lines[0].POLineID)
	assert.Equal(t, core.GRNLineDraft, g.Lines[0].Status)
	assert.True(t, g.TotalAmount.IsZero())
}
