package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrValidation is matched by every client-side validation failure.
var ErrValidation = errors.New("validation failed")

// FieldError is one inline message attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every problem found in a document so the caller
// can show them all at once. A nil or empty value means the document is valid.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap lets callers use errors.Is(err, ErrValidation).
func (v ValidationErrors) Unwrap() error { return ErrValidation }

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// err returns v as an error, or nil when empty.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) requireDate(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		v.add(field, "must be a YYYY-MM-DD date")
	}
}

func (v *ValidationErrors) checkHeader(counterpartyField string, counterpartyID int, currency string, rate decimal.Decimal) {
	if counterpartyID <= 0 {
		v.add(counterpartyField, "is required")
	}
	if strings.TrimSpace(currency) == "" {
		v.add("currency_code", "is required")
	}
	if rate.IsNegative() || rate.IsZero() {
		v.add("exchange_rate", "must be greater than 0, got %s", rate)
	}
}

func (v *ValidationErrors) checkLine(prefix string, l LineItem) {
	if strings.TrimSpace(l.ItemName) == "" && strings.TrimSpace(l.Description) == "" && (l.ItemCode == nil || *l.ItemCode == "") {
		v.add(prefix+".item_name", "item or description is required")
	}
	if l.Quantity.IsNegative() {
		v.add(prefix+".quantity", "cannot be negative")
	}
	if l.UnitPrice.IsNegative() {
		v.add(prefix+".unit_price", "cannot be negative")
	}
	if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
		v.add(prefix+".tax_rate", "must be between 0 and 100, got %s", l.TaxRate)
	}
}

// ValidatePurchaseOrder checks a PO before it is submitted.
func ValidatePurchaseOrder(po *PurchaseOrder) error {
	var v ValidationErrors
	v.checkHeader("supplier_id", po.SupplierID, po.CurrencyCode, po.ExchangeRate)
	if po.SupplierSiteID == nil {
		v.add("supplier_site_id", "a supplier site must be selected")
	}
	v.requireDate("po_date", po.PODate)
	if len(po.Lines) == 0 {
		v.add("lines", "purchase order must have at least one line")
	}
	for i, l := range po.Lines {
		prefix := fmt.Sprintf("lines[%d]", i)
		v.checkLine(prefix, l.LineItem)
		if l.Quantity.IsZero() {
			v.add(prefix+".quantity", "must be greater than 0")
		}
		if l.QuantityReceived.IsNegative() {
			v.add(prefix+".quantity_received", "cannot be negative")
		}
		if l.Quantity.Sub(l.QuantityReceived).IsNegative() {
			v.add(prefix+".quantity_remaining", "received %s exceeds ordered %s", l.QuantityReceived, l.Quantity)
		}
	}
	return v.err()
}

// ValidateGRN checks a goods received note before it is submitted.
// accepted + rejected must not exceed the ordered quantity; that is never auto-corrected.
func ValidateGRN(g *GRN) error {
	var v ValidationErrors
	if g.POHeaderID <= 0 {
		v.add("po_header_id", "a purchase order is required")
	}
	if g.SupplierID <= 0 {
		v.add("supplier_id", "is required")
	}
	v.requireDate("receipt_date", g.ReceiptDate)
	if len(g.Lines) == 0 {
		v.add("lines", "goods received note must have at least one line")
	}
	for i, l := range g.Lines {
		prefix := fmt.Sprintf("lines[%d]", i)
		if l.UnitPrice.IsNegative() {
			v.add(prefix+".unit_price", "cannot be negative")
		}
		if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
			v.add(prefix+".tax_rate", "must be between 0 and 100, got %s", l.TaxRate)
		}
		for _, q := range []struct {
			name string
			val  decimal.Decimal
		}{
			{"quantity_received", l.QuantityReceived},
			{"quantity_accepted", l.QuantityAccepted},
			{"quantity_rejected", l.QuantityRejected},
		} {
			if q.val.IsNegative() {
				v.add(prefix+"."+q.name, "cannot be negative")
			}
		}
		if !l.QuantityReceived.Equal(l.QuantityAccepted.Add(l.QuantityRejected)) {
			v.add(prefix+".quantity_received", "must equal accepted + rejected (%s + %s)", l.QuantityAccepted, l.QuantityRejected)
		}
		if l.QuantityAccepted.Add(l.QuantityRejected).GreaterThan(l.QuantityOrdered) {
			v.add(prefix+".quantity_accepted", "accepted + rejected (%s) exceeds ordered quantity %s",
				l.QuantityAccepted.Add(l.QuantityRejected), l.QuantityOrdered)
		}
		if l.ExpirationDate != nil && *l.ExpirationDate != "" {
			if _, err := time.Parse(dateLayout, *l.ExpirationDate); err != nil {
				v.add(prefix+".expiration_date", "must be a YYYY-MM-DD date")
			}
		}
	}
	return v.err()
}

// ValidateInvoice checks an AR invoice before it is submitted.
func ValidateInvoice(inv *Invoice) error {
	var v ValidationErrors
	v.checkHeader("customer_id", inv.CustomerID, inv.CurrencyCode, inv.ExchangeRate)
	if inv.BillToSiteID == nil {
		v.add("bill_to_site_id", "a bill-to site must be selected")
	}
	v.requireDate("invoice_date", inv.InvoiceDate)
	if inv.DueDate != "" {
		due, err := time.Parse(dateLayout, inv.DueDate)
		if err != nil {
			v.add("due_date", "must be a YYYY-MM-DD date")
		} else if issued, err := time.Parse(dateLayout, inv.InvoiceDate); err == nil && due.Before(issued) {
			v.add("due_date", "cannot be before the invoice date")
		}
	}
	if inv.PaymentTermsDays < 0 {
		v.add("payment_terms_days", "cannot be negative")
	}
	if len(inv.Lines) == 0 {
		v.add("lines", "invoice must have at least one line")
	}
	for i, l := range inv.Lines {
		v.checkLine(fmt.Sprintf("lines[%d]", i), l)
	}
	return v.err()
}

// ValidateReceipt checks an AR receipt and its invoice applications.
// Each application is bounded by the invoice's original amount due.
func ValidateReceipt(r *Receipt) error {
	var v ValidationErrors
	v.checkHeader("customer_id", r.CustomerID, r.CurrencyCode, r.ExchangeRate)
	v.requireDate("receipt_date", r.ReceiptDate)
	if !r.Amount.IsPositive() {
		v.add("amount", "must be greater than 0")
	}
	if len(r.Applications) == 0 {
		v.add("applications", "at least one invoice must be applied")
	}
	v.checkApplications(r)
	return v.err()
}

// ValidateReceiptDraft runs the application checks of ValidateReceipt. A
// draft may still lack its header fields and amount.
func ValidateReceiptDraft(r *Receipt) error {
	var v ValidationErrors
	v.checkApplications(r)
	return v.err()
}

func (v *ValidationErrors) checkApplications(r *Receipt) {
	seen := make(map[int]bool, len(r.Applications))
	for i, a := range r.Applications {
		prefix := fmt.Sprintf("applications[%d]", i)
		if seen[a.InvoiceID] {
			v.add(prefix+".invoice_id", "invoice %s is applied more than once", a.InvoiceNumber)
		}
		seen[a.InvoiceID] = true
		if a.ApplicationAmount.IsNegative() {
			v.add(prefix+".application_amount", "cannot be negative")
		}
		if a.ApplicationAmount.GreaterThan(a.AmountDue) {
			v.add(prefix+".application_amount", "%s exceeds amount due %s on invoice %s",
				a.ApplicationAmount.StringFixed(2), a.AmountDue.StringFixed(2), a.InvoiceNumber)
		}
	}
	if applied := r.AppliedTotal(); r.Amount.IsPositive() && applied.GreaterThan(r.Amount) {
		v.add("applications", "applied total %s exceeds receipt amount %s", applied.StringFixed(2), r.Amount.StringFixed(2))
	}
}

// ValidateAgreement checks a purchase agreement before it is submitted.
func ValidateAgreement(a *PurchaseAgreement) error {
	var v ValidationErrors
	v.checkHeader("supplier_id", a.SupplierID, a.CurrencyCode, a.ExchangeRate)
	v.requireDate("agreement_date", a.AgreementDate)
	v.requireDate("effective_from", a.EffectiveFrom)
	if a.EffectiveTo != nil && *a.EffectiveTo != "" {
		to, err := time.Parse(dateLayout, *a.EffectiveTo)
		if err != nil {
			v.add("effective_to", "must be a YYYY-MM-DD date")
		} else if from, err := time.Parse(dateLayout, a.EffectiveFrom); err == nil && to.Before(from) {
			v.add("effective_to", "cannot be before effective_from")
		}
	}
	if len(a.Lines) == 0 {
		v.add("lines", "agreement must have at least one line")
	}
	for i, l := range a.Lines {
		v.checkLine(fmt.Sprintf("lines[%d]", i), l)
	}
	return v.err()
}

// ValidateRequisition checks a purchase requisition before it is submitted.
func ValidateRequisition(r *PurchaseRequisition) error {
	var v ValidationErrors
	if r.RequesterID <= 0 {
		v.add("requester_id", "is required")
	}
	if strings.TrimSpace(r.CurrencyCode) == "" {
		v.add("currency_code", "is required")
	}
	if r.ExchangeRate.IsNegative() || r.ExchangeRate.IsZero() {
		v.add("exchange_rate", "must be greater than 0, got %s", r.ExchangeRate)
	}
	v.requireDate("request_date", r.RequestDate)
	if len(r.Lines) == 0 {
		v.add("lines", "requisition must have at least one line")
	}
	for i, l := range r.Lines {
		prefix := fmt.Sprintf("lines[%d]", i)
		v.checkLine(prefix, l)
		if l.Quantity.IsZero() {
			v.add(prefix+".quantity", "must be greater than 0")
		}
	}
	return v.err()
}
