package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AddApplication appends an invoice application to a draft receipt. The
// invoice must not already be applied and the amount must lie within
// [0, AmountDue].
func AddApplication(r *Receipt, app ReceiptApplication) error {
	if r.Status == ReceiptStatusPaid {
		return &TransitionError{
			Document: "receipt " + r.ReceiptNumber,
			Field:    "applications",
			From:     string(r.Status),
			To:       string(r.Status),
			Reason:   "a PAID receipt cannot take new applications",
		}
	}
	for _, a := range r.Applications {
		if a.InvoiceID == app.InvoiceID {
			return ValidationErrors{{Field: "applications", Message: fmt.Sprintf("invoice %s is already applied", app.InvoiceNumber)}}
		}
	}
	if app.ApplicationAmount.IsNegative() || app.ApplicationAmount.GreaterThan(app.AmountDue) {
		return ValidationErrors{{Field: "application_amount",
			Message: fmt.Sprintf("must be between 0 and %s", app.AmountDue.StringFixed(2))}}
	}
	r.Applications = append(r.Applications, app)
	return nil
}

// RemoveApplication drops the application for invoiceID, if present.
func RemoveApplication(r *Receipt, invoiceID int) {
	out := r.Applications[:0]
	for _, a := range r.Applications {
		if a.InvoiceID != invoiceID {
			out = append(out, a)
		}
	}
	r.Applications = out
}

// RestoreOriginalAmountsDue rewrites each application's AmountDue to the
// invoice balance before this receipt applied to it. liveAmountDue maps
// invoice id to the balance currently reported by the backend; invoices
// missing from the map keep their stored AmountDue.
func RestoreOriginalAmountsDue(r *Receipt, liveAmountDue map[int]decimal.Decimal) {
	for i := range r.Applications {
		a := &r.Applications[i]
		live, ok := liveAmountDue[a.InvoiceID]
		if !ok {
			continue
		}
		a.AmountDue = OriginalAmountDue(r.Status, *a, live)
	}
}
