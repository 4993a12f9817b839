package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GRNField names the single field driving a GRN line edit.
type GRNField string

const (
	GRNFieldReceived GRNField = "quantity_received"
	GRNFieldAccepted GRNField = "quantity_accepted"
	GRNFieldRejected GRNField = "quantity_rejected"
	GRNFieldStatus   GRNField = "status"
)

// GRNEdit is one user action on a GRN line.
type GRNEdit struct {
	Field  GRNField        `json:"field"`
	Value  decimal.Decimal `json:"value"`
	Status GRNLineStatus   `json:"status,omitempty"`
}

// ApplyGRNEdit applies edit to line and returns the updated line.
//
// Editing received or accepted recomputes rejected = received - accepted;
// editing rejected recomputes received = accepted + rejected. Only one of the
// two rules runs per edit. An edit that would leave accepted above received is
// refused and the original line is returned with the error.
func ApplyGRNEdit(line GRNLine, edit GRNEdit) (GRNLine, error) {
	if edit.Field == GRNFieldStatus {
		switch edit.Status {
		case GRNLineDraft, GRNLineAccepted, GRNLineRejected:
		default:
			return line, ValidationErrors{{Field: "status", Message: fmt.Sprintf("unknown line status %q", edit.Status)}}
		}
		line.Status = edit.Status
		line.StatusLocked = true
		return line, nil
	}

	if edit.Value.IsNegative() {
		return line, ValidationErrors{{Field: string(edit.Field), Message: "cannot be negative"}}
	}

	next := line
	switch edit.Field {
	case GRNFieldReceived:
		if edit.Value.LessThan(line.QuantityAccepted) {
			return line, ValidationErrors{{Field: string(edit.Field),
				Message: fmt.Sprintf("received %s cannot be less than accepted %s", edit.Value, line.QuantityAccepted)}}
		}
		next.QuantityReceived = edit.Value
		next.QuantityRejected = decimal.Max(decimal.Zero, next.QuantityReceived.Sub(next.QuantityAccepted))
	case GRNFieldAccepted:
		if edit.Value.GreaterThan(line.QuantityReceived) {
			return line, ValidationErrors{{Field: string(edit.Field),
				Message: fmt.Sprintf("accepted %s cannot exceed received %s", edit.Value, line.QuantityReceived)}}
		}
		next.QuantityAccepted = edit.Value
		next.QuantityRejected = decimal.Max(decimal.Zero, next.QuantityReceived.Sub(next.QuantityAccepted))
	case GRNFieldRejected:
		next.QuantityRejected = edit.Value
		next.QuantityReceived = next.QuantityAccepted.Add(next.QuantityRejected)
	default:
		return line, fmt.Errorf("unknown GRN field %q", edit.Field)
	}

	RecomputeGRNLine(&next)
	deriveGRNLineStatus(&next)
	return next, nil
}

// RecomputeGRNLine prices the line on its accepted quantity.
func RecomputeGRNLine(l *GRNLine) {
	l.Quantity = l.QuantityAccepted
	l.LineAmount = LineAmount(l.QuantityAccepted, l.UnitPrice)
	l.TaxAmount = TaxAmount(l.LineAmount, l.TaxRate)
}

// deriveGRNLineStatus moves a DRAFT line to ACCEPTED or REJECTED once the
// quantities settle. Lines that already left DRAFT keep their status.
func deriveGRNLineStatus(l *GRNLine) {
	if l.StatusLocked || l.Status != GRNLineDraft {
		return
	}
	switch {
	case l.QuantityAccepted.IsPositive() && l.QuantityRejected.IsZero():
		l.Status = GRNLineAccepted
	case l.QuantityAccepted.IsZero() && l.QuantityRejected.IsPositive():
		l.Status = GRNLineRejected
	}
}

// NewGRNFromPurchaseOrder drafts a GRN with one line per PO line that still has
// quantity outstanding. The PO must be approved.
func NewGRNFromPurchaseOrder(po *PurchaseOrder, receiptDate string) (*GRN, error) {
	if err := RequireGRNAllowed(po); err != nil {
		return nil, err
	}

	g := &GRN{
		POHeaderID:     po.ID,
		PONumber:       po.PONumber,
		SupplierID:     po.SupplierID,
		SupplierSiteID: po.SupplierSiteID,
		ReceiptDate:    receiptDate,
		CurrencyCode:   po.CurrencyCode,
		ExchangeRate:   NormalizeExchangeRate(po.ExchangeRate),
		Status:         GRNStatusDraft,
	}
	for _, pl := range po.Lines {
		remaining := pl.Quantity.Sub(pl.QuantityReceived)
		if !remaining.IsPositive() {
			continue
		}
		lineID := pl.ID
		gl := GRNLine{
			LineItem: LineItem{
				LineNumber:  len(g.Lines) + 1,
				ItemCode:    pl.ItemCode,
				ItemName:    pl.ItemName,
				Description: pl.Description,
				UnitPrice:   pl.UnitPrice,
				TaxRate:     pl.TaxRate,
			},
			QuantityOrdered: remaining,
			Status:          GRNLineDraft,
		}
		if lineID != 0 {
			gl.POLineID = &lineID
		}
		RecomputeGRNLine(&gl)
		g.Lines = append(g.Lines, gl)
	}
	if len(g.Lines) == 0 {
		return nil, fmt.Errorf("purchase order %s has no quantity left to receive", po.PONumber)
	}
	RecomputeGRN(g)
	return g, nil
}
