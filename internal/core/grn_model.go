package core

import "github.com/shopspring/decimal"

// GRN is a goods received note raised against an approved purchase order.
type GRN struct {
	ID             int             `json:"grn_id,omitempty"`
	GRNNumber      string          `json:"grn_number"`
	POHeaderID     int             `json:"po_header_id"`
	PONumber       string          `json:"po_number,omitempty"`
	SupplierID     int             `json:"supplier_id"`
	SupplierSiteID *int            `json:"supplier_site_id,omitempty"`
	ReceiptDate    string          `json:"receipt_date"` // YYYY-MM-DD
	CurrencyCode   string          `json:"currency_code"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalBase      decimal.Decimal `json:"total_base"`
	Status         GRNStatus       `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	Lines          []GRNLine       `json:"lines"`
}

// GRNStatus is the header status of a goods received note.
type GRNStatus string

const (
	GRNStatusDraft     GRNStatus = "DRAFT"
	GRNStatusCompleted GRNStatus = "COMPLETED"
	GRNStatusCancelled GRNStatus = "CANCELLED"
)
