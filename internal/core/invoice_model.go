package core

import "github.com/shopspring/decimal"

// Invoice is an accounts-receivable invoice to a customer.
type Invoice struct {
	ID               int             `json:"invoice_id,omitempty"`
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       int             `json:"customer_id"`
	BillToSiteID     *int            `json:"bill_to_site_id,omitempty"`
	InvoiceDate      string          `json:"invoice_date"` // YYYY-MM-DD
	DueDate          string          `json:"due_date,omitempty"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	CurrencyCode     string          `json:"currency_code"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalBase        decimal.Decimal `json:"total_base"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	Status           InvoiceStatus   `json:"status"`
	ApprovalStatus   ApprovalStatus  `json:"approval_status"`
	Lines            []LineItem      `json:"lines"`
}

// Receipt is an accounts-receivable cash receipt applied against invoices.
type Receipt struct {
	ID            int                  `json:"receipt_id,omitempty"`
	ReceiptNumber string               `json:"receipt_number"`
	CustomerID    int                  `json:"customer_id"`
	ReceiptDate   string               `json:"receipt_date"`
	CurrencyCode  string               `json:"currency_code"`
	ExchangeRate  decimal.Decimal      `json:"exchange_rate"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod string               `json:"payment_method,omitempty"`
	Reference     string               `json:"reference,omitempty"`
	Status        ReceiptStatus        `json:"status"`
	Applications  []ReceiptApplication `json:"applications"`
}

// ReceiptApplication applies part of a receipt to one invoice.
// AmountDue is the invoice's amount due before this receipt was applied.
type ReceiptApplication struct {
	InvoiceID         int             `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	ApplicationAmount decimal.Decimal `json:"application_amount"`
}

// AppliedTotal sums ApplicationAmount across all applications.
func (r *Receipt) AppliedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Applications {
		total = total.Add(a.ApplicationAmount)
	}
	return total
}

// InvoiceIDs returns the invoice ids referenced by the receipt's applications.
func (r *Receipt) InvoiceIDs() []int {
	ids := make([]int, 0, len(r.Applications))
	for _, a := range r.Applications {
		ids = append(ids, a.InvoiceID)
	}
	return ids
}
