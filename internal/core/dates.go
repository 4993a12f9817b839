package core

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// EditedField names the date-related field the user just changed. It is passed
// explicitly with each update and cleared by the caller afterwards.
type EditedField string

const (
	EditedNone         EditedField = ""
	EditedInvoiceDate  EditedField = "invoice_date"
	EditedPaymentTerms EditedField = "payment_terms_days"
	EditedDueDate      EditedField = "due_date"
)

// InvoiceDates is the slice of invoice state involved in due-date reconciliation.
type InvoiceDates struct {
	InvoiceDate      string `json:"invoice_date"`
	DueDate          string `json:"due_date"`
	PaymentTermsDays int    `json:"payment_terms_days"`
}

// ReconcileDates derives the dependent field from the one named by edited.
//
// Editing the invoice date or payment terms recomputes the due date; editing
// the due date recomputes payment terms when the gap is strictly positive.
// Exactly one rule runs per call, so a due-date edit is never overwritten in
// the same update.
func ReconcileDates(d InvoiceDates, edited EditedField) (InvoiceDates, error) {
	switch edited {
	case EditedInvoiceDate, EditedPaymentTerms:
		if d.InvoiceDate == "" {
			return d, nil
		}
		issued, err := time.Parse(dateLayout, d.InvoiceDate)
		if err != nil {
			return d, fmt.Errorf("invoice date %q: %w", d.InvoiceDate, err)
		}
		if d.PaymentTermsDays < 0 {
			return d, ValidationErrors{{Field: "payment_terms_days", Message: "cannot be negative"}}
		}
		due := issued.AddDate(0, 0, d.PaymentTermsDays).Format(dateLayout)
		if due != d.DueDate {
			d.DueDate = due
		}
	case EditedDueDate:
		if d.InvoiceDate == "" || d.DueDate == "" {
			return d, nil
		}
		issued, err := time.Parse(dateLayout, d.InvoiceDate)
		if err != nil {
			return d, fmt.Errorf("invoice date %q: %w", d.InvoiceDate, err)
		}
		due, err := time.Parse(dateLayout, d.DueDate)
		if err != nil {
			return d, fmt.Errorf("due date %q: %w", d.DueDate, err)
		}
		if days := DaysBetween(issued, due); days > 0 {
			d.PaymentTermsDays = days
		}
	case EditedNone:
	default:
		return d, fmt.Errorf("unknown edited field %q", edited)
	}
	return d, nil
}

// DaysBetween returns the rounded number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(civilDate(b).Sub(civilDate(a)).Hours() / 24))
}

// ApplyInvoiceDates copies reconciled dates back onto the invoice.
func ApplyInvoiceDates(inv *Invoice, edited EditedField) error {
	d, err := ReconcileDates(InvoiceDates{
		InvoiceDate:      inv.InvoiceDate,
		DueDate:          inv.DueDate,
		PaymentTermsDays: inv.PaymentTermsDays,
	}, edited)
	if err != nil {
		return err
	}
	inv.DueDate = d.DueDate
	inv.PaymentTermsDays = d.PaymentTermsDays
	return nil
}
