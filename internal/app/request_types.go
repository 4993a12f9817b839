package app

import (
	"net/url"
	"strconv"

	"procure-to-pay/internal/core"

	"github.com/shopspring/decimal"
)

// ListFilter is passed to the backend as query parameters.
type ListFilter struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

func (f ListFilter) values() url.Values {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("limit", strconv.Itoa(f.PageSize))
	}
	return v
}

// ApprovalRequest is an approval decision on a stored document.
type ApprovalRequest struct {
	ID       int                 `json:"id"`
	Decision core.ApprovalStatus `json:"decision"`
}

// StartGRNRequest starts receiving against a purchase order.
type StartGRNRequest struct {
	PurchaseOrderID int    `json:"po_header_id"`
	ReceiptDate     string `json:"receipt_date"` // YYYY-MM-DD; empty means today
}

// EditGRNLineRequest is one edit to one line of an in-progress GRN.
type EditGRNLineRequest struct {
	GRN       *core.GRN    `json:"grn"`
	LineIndex int          `json:"line_index"`
	Edit      core.GRNEdit `json:"edit"`
}

// SiteRequest asks for the site to use for a party.
type SiteRequest struct {
	PartyID       int              `json:"party_id"`
	Purpose       core.SitePurpose `json:"purpose"`
	CurrentSiteID *int             `json:"current_site_id,omitempty"`
}

// InvoiceStatusRequest changes status, approval, or both. Status is applied
// first so that paying and approving in one request works.
type InvoiceStatusRequest struct {
	ID             int                  `json:"id"`
	Status         *core.InvoiceStatus  `json:"status,omitempty"`
	ApprovalStatus *core.ApprovalStatus `json:"approval_status,omitempty"`
}

// AddApplicationRequest applies an invoice to a receipt being edited.
// A nil Amount applies the invoice's full amount due; an explicit zero is kept.
type AddApplicationRequest struct {
	Receipt       *core.Receipt    `json:"receipt"`
	InvoiceID     int              `json:"invoice_id"`
	InvoiceNumber string           `json:"invoice_number"`
	AmountDue     decimal.Decimal  `json:"amount_due"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}
