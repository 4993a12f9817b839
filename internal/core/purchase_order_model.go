package core

import "github.com/shopspring/decimal"

// PurchaseOrder represents a purchase order header with embedded lines.
// Status and ApprovalStatus are independent axes: approving a PO changes only
// ApprovalStatus.
type PurchaseOrder struct {
	ID              int             `json:"po_header_id,omitempty"`
	PONumber        string          `json:"po_number"`
	SupplierID      int             `json:"supplier_id"`
	SupplierSiteID  *int            `json:"supplier_site_id,omitempty"`
	PODate          string          `json:"po_date"` // YYYY-MM-DD
	NeedByDate      *string         `json:"need_by_date,omitempty"`
	CurrencyCode    string          `json:"currency_code"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalBase       decimal.Decimal `json:"total_base"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Status          POStatus        `json:"status"`
	ApprovalStatus  ApprovalStatus  `json:"approval_status"`
	AgreementID     *int            `json:"agreement_id,omitempty"`
	RequisitionID   *int            `json:"requisition_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Lines           []POLine        `json:"lines"`
}

// NewPurchaseOrder returns an empty DRAFT/PENDING order in the given currency.
func NewPurchaseOrder(supplierID int, poDate, currency string) *PurchaseOrder {
	return &PurchaseOrder{
		SupplierID:     supplierID,
		PODate:         poDate,
		CurrencyCode:   currency,
		ExchangeRate:   one,
		Status:         POStatusDraft,
		ApprovalStatus: ApprovalPending,
	}
}

// PurchaseAgreement is a blanket agreement whose remaining amount is drawn
// down by releases recorded in the backend.
type PurchaseAgreement struct {
	ID              int             `json:"agreement_id,omitempty"`
	AgreementNumber string          `json:"agreement_number"`
	SupplierID      int             `json:"supplier_id"`
	SupplierSiteID  *int            `json:"supplier_site_id,omitempty"`
	AgreementDate   string          `json:"agreement_date"`
	EffectiveFrom   string          `json:"effective_from"`
	EffectiveTo     *string         `json:"effective_to,omitempty"`
	CurrencyCode    string          `json:"currency_code"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalBase       decimal.Decimal `json:"total_base"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Status          AgreementStatus `json:"status"`
	Lines           []LineItem      `json:"lines"`
}

// PurchaseRequisition is an internal request to buy, later converted into a PO.
type PurchaseRequisition struct {
	ID                int               `json:"requisition_id,omitempty"`
	RequisitionNumber string            `json:"requisition_number"`
	RequesterID       int               `json:"requester_id"`
	SupplierID        *int              `json:"supplier_id,omitempty"`
	RequestDate       string            `json:"request_date"`
	NeedByDate        *string           `json:"need_by_date,omitempty"`
	CurrencyCode      string            `json:"currency_code"`
	ExchangeRate      decimal.Decimal   `json:"exchange_rate"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	TotalBase         decimal.Decimal   `json:"total_base"`
	Status            RequisitionStatus `json:"status"`
	Justification     string            `json:"justification,omitempty"`
	Lines             []LineItem        `json:"lines"`
}
