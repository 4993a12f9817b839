package app

import (
	"procure-to-pay/internal/api"
	"procure-to-pay/internal/core"
)

// PurchaseOrderResult is returned by purchase order operations. Issues holds
// validation findings from a recompute; Warnings holds payload problems the
// backend response had to be patched for.
type PurchaseOrderResult struct {
	PurchaseOrder *core.PurchaseOrder `json:"purchase_order"`
	Issues        []core.FieldError   `json:"issues,omitempty"`
	Warnings      []string            `json:"warnings,omitempty"`
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	PurchaseOrders []core.PurchaseOrder `json:"purchase_orders"`
	Warnings       []string             `json:"warnings,omitempty"`
}

// GRNResult is returned by goods received note operations.
type GRNResult struct {
	GRN      *core.GRN         `json:"grn"`
	Issues   []core.FieldError `json:"issues,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// GRNListResult is returned by ListGRNs.
type GRNListResult struct {
	GRNs     []core.GRN `json:"grns"`
	Warnings []string   `json:"warnings,omitempty"`
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices []core.Invoice `json:"invoices"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ReceiptListResult is returned by ListReceipts.
type ReceiptListResult struct {
	Receipts []core.Receipt `json:"receipts"`
	Warnings []string       `json:"warnings,omitempty"`
}

// InvoiceResult is returned by invoice operations.
type InvoiceResult struct {
	Invoice  *core.Invoice     `json:"invoice"`
	Issues   []core.FieldError `json:"issues,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// ReceiptResult is returned by receipt operations.
type ReceiptResult struct {
	Receipt  *core.Receipt `json:"receipt"`
	Warnings []string      `json:"warnings,omitempty"`
}

// SiteResult is returned by site resolution.
type SiteResult struct {
	core.SiteSelection
}

// AgreementResult is returned by purchase agreement operations.
type AgreementResult struct {
	Agreement *core.PurchaseAgreement `json:"agreement"`
	Issues    []core.FieldError       `json:"issues,omitempty"`
}

// RequisitionResult is returned by purchase requisition operations.
type RequisitionResult struct {
	Requisition *core.PurchaseRequisition `json:"requisition"`
	Issues      []core.FieldError         `json:"issues,omitempty"`
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []api.Customer `json:"customers"`
}
