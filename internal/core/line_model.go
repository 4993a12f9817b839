package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is the line shape shared by every document type.
type LineItem struct {
	LineNumber  int             `json:"line_number"`
	ItemCode    *string         `json:"item_code,omitempty"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineAmount  decimal.Decimal `json:"line_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percent, 0-100
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// Total returns LineAmount + TaxAmount as currently stored.
func (l LineItem) Total() decimal.Decimal {
	return LineTotal(l.LineAmount, l.TaxAmount)
}

// Recompute derives LineAmount and TaxAmount from Quantity, UnitPrice and TaxRate.
func (l *LineItem) Recompute() {
	l.LineAmount = LineAmount(l.Quantity, l.UnitPrice)
	l.TaxAmount = TaxAmount(l.LineAmount, l.TaxRate)
}

// POLine is a purchase order line with receiving progress.
type POLine struct {
	LineItem
	ID                int             `json:"po_line_id,omitempty"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
}

// GRNLineStatus is the per-line inspection outcome on a goods received note.
type GRNLineStatus string

const (
	GRNLineDraft    GRNLineStatus = "DRAFT"
	GRNLineAccepted GRNLineStatus = "ACCEPTED"
	GRNLineRejected GRNLineStatus = "REJECTED"
)

// GRNLine records receipt, acceptance and rejection of one ordered item.
//
// Invariant: QuantityReceived == QuantityAccepted + QuantityRejected.
// Pricing follows the accepted quantity, not the received one.
type GRNLine struct {
	LineItem
	POLineID         *int            `json:"po_line_id,omitempty"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	QuantityAccepted decimal.Decimal `json:"quantity_accepted"`
	QuantityRejected decimal.Decimal `json:"quantity_rejected"`
	LotNumber        string          `json:"lot_number"`
	SerialNumber     string          `json:"serial_number"`
	ExpirationDate   *string         `json:"expiration_date,omitempty"` // YYYY-MM-DD
	Status           GRNLineStatus   `json:"status"`

	// StatusLocked is set once the user picks a status by hand; auto-derivation stops.
	StatusLocked bool `json:"status_locked,omitempty"`
}

// SumLines returns Σ(lineAmount + taxAmount) over already-rounded line components.
func SumLines(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// civilDate truncates t to a UTC calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
