package core

import "github.com/shopspring/decimal"

// RecomputePOLine derives amounts and the remaining quantity for one PO line.
// A negative remaining quantity is left visible for validation to reject.
func RecomputePOLine(l *POLine) {
	l.LineItem.Recompute()
	l.QuantityRemaining = l.Quantity.Sub(l.QuantityReceived)
}

// RecomputePurchaseOrder renumbers and reprices every line and recomputes the
// header totals from scratch.
//
// For an order that has not been saved yet nothing can have been received, so
// AmountRemaining is 0. For an existing order it is the provisional
// total - Σ(received × unit price).
func RecomputePurchaseOrder(po *PurchaseOrder, isNew bool) {
	po.ExchangeRate = NormalizeExchangeRate(po.ExchangeRate)
	total := decimal.Zero
	received := decimal.Zero
	for i := range po.Lines {
		l := &po.Lines[i]
		l.LineNumber = i + 1
		RecomputePOLine(l)
		total = total.Add(l.Total())
		received = received.Add(LineAmount(l.QuantityReceived, l.UnitPrice))
	}
	po.TotalAmount = total
	po.TotalBase = BaseAmount(total, po.ExchangeRate)
	if isNew {
		po.AmountRemaining = decimal.Zero
		return
	}
	po.AmountRemaining = total.Sub(received)
}

// RecomputeGRN reprices every line on its accepted quantity and sums the header.
func RecomputeGRN(g *GRN) {
	g.ExchangeRate = NormalizeExchangeRate(g.ExchangeRate)
	total := decimal.Zero
	for i := range g.Lines {
		l := &g.Lines[i]
		l.LineNumber = i + 1
		RecomputeGRNLine(l)
		total = total.Add(l.Total())
	}
	g.TotalAmount = total
	g.TotalBase = BaseAmount(total, g.ExchangeRate)
}

// RecomputeAgreement reprices lines and sums the header. A new agreement starts
// with its whole value remaining; existing agreements keep the backend's figure.
func RecomputeAgreement(a *PurchaseAgreement, isNew bool) {
	a.ExchangeRate = NormalizeExchangeRate(a.ExchangeRate)
	recomputeLines(a.Lines)
	a.TotalAmount = SumLines(a.Lines)
	a.TotalBase = BaseAmount(a.TotalAmount, a.ExchangeRate)
	if isNew {
		a.AmountRemaining = a.TotalAmount
	}
}

// RecomputeRequisition reprices lines and sums the header.
func RecomputeRequisition(r *PurchaseRequisition) {
	r.ExchangeRate = NormalizeExchangeRate(r.ExchangeRate)
	recomputeLines(r.Lines)
	r.TotalAmount = SumLines(r.Lines)
	r.TotalBase = BaseAmount(r.TotalAmount, r.ExchangeRate)
}

// RecomputeInvoice reprices lines and sums the header. A new invoice owes its
// full total.
func RecomputeInvoice(inv *Invoice, isNew bool) {
	inv.ExchangeRate = NormalizeExchangeRate(inv.ExchangeRate)
	recomputeLines(inv.Lines)
	inv.TotalAmount = SumLines(inv.Lines)
	inv.TotalBase = BaseAmount(inv.TotalAmount, inv.ExchangeRate)
	if isNew {
		inv.AmountDue = inv.TotalAmount
	}
}

func recomputeLines(lines []LineItem) {
	for i := range lines {
		lines[i].LineNumber = i + 1
		lines[i].Recompute()
	}
}
