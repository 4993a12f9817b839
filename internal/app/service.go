package app

import (
	"context"

	"procure-to-pay/internal/core"
)

// ApplicationService is the single interface the CLI and web adapters call.
// It runs the form workflow: recompute, validate, then submit. Nothing is
// sent to the backend until core validation passes.
type ApplicationService interface {
	// RecomputePurchaseOrder recomputes line and header totals. Validation
	// issues are returned in the result, not as an error.
	RecomputePurchaseOrder(ctx context.Context, po *core.PurchaseOrder, isNew bool) (*PurchaseOrderResult, error)

	// SubmitPurchaseOrder recomputes, validates and then creates (ID 0) or
	// updates the order on the backend.
	SubmitPurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*PurchaseOrderResult, error)

	// DecidePurchaseOrderApproval applies an approval decision to a stored order.
	DecidePurchaseOrderApproval(ctx context.Context, req ApprovalRequest) (*PurchaseOrderResult, error)

	// ListPurchaseOrders passes filters straight to the backend.
	ListPurchaseOrders(ctx context.Context, filter ListFilter) (*PurchaseOrderListResult, error)

	// StartGRN builds a draft goods received note from an APPROVED order.
	StartGRN(ctx context.Context, req StartGRNRequest) (*GRNResult, error)

	// EditGRNLine applies one field edit to a GRN line and recomputes the note.
	EditGRNLine(ctx context.Context, req EditGRNLineRequest) (*GRNResult, error)

	// SubmitGRN recomputes, validates and saves a goods received note.
	SubmitGRN(ctx context.Context, g *core.GRN) (*GRNResult, error)

	// ListGRNs passes filters straight to the backend.
	ListGRNs(ctx context.Context, filter ListFilter) (*GRNListResult, error)

	// DeleteDraftGRN deletes a stored GRN that is still DRAFT.
	DeleteDraftGRN(ctx context.Context, id int) (*GRNResult, error)

	// ListInvoices passes filters straight to the backend.
	ListInvoices(ctx context.Context, filter ListFilter) (*InvoiceListResult, error)

	// ListReceipts passes filters straight to the backend.
	ListReceipts(ctx context.Context, filter ListFilter) (*ReceiptListResult, error)

	// ReconcileInvoiceDates keeps invoice date, terms and due date consistent
	// given the field the user just edited.
	ReconcileInvoiceDates(ctx context.Context, inv *core.Invoice, edited core.EditedField) (*InvoiceResult, error)

	// ListCustomers returns the customers known to the backend.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// ResolveSupplierSite loads a supplier's sites and picks one for purpose.
	ResolveSupplierSite(ctx context.Context, req SiteRequest) (*SiteResult, error)

	// ResolveCustomerSite loads a customer's sites and picks one for purpose.
	ResolveCustomerSite(ctx context.Context, req SiteRequest) (*SiteResult, error)

	// SubmitInvoice recomputes, validates and creates an AR invoice.
	SubmitInvoice(ctx context.Context, inv *core.Invoice) (*InvoiceResult, error)

	// ChangeInvoiceStatus moves status and/or approval of a stored invoice.
	ChangeInvoiceStatus(ctx context.Context, req InvoiceStatusRequest) (*InvoiceResult, error)

	// AddReceiptApplication applies an invoice to a receipt after checking no
	// other draft receipt already holds it.
	AddReceiptApplication(ctx context.Context, req AddApplicationRequest) (*ReceiptResult, error)

	// SaveReceiptDraft saves the receipt as DRAFT. Header fields may be
	// incomplete but every application must be within bounds.
	SaveReceiptDraft(ctx context.Context, r *core.Receipt) (*ReceiptResult, error)

	// FinalizeReceipt validates, re-checks conflicts and saves the receipt as
	// PAID. A stored PAID receipt prepared with PrepareReceiptForEdit is saved
	// again the same way.
	FinalizeReceipt(ctx context.Context, r *core.Receipt) (*ReceiptResult, error)

	// PrepareReceiptForEdit loads a receipt and restores each application's
	// amount due to its value before the receipt was applied.
	PrepareReceiptForEdit(ctx context.Context, receiptID int) (*ReceiptResult, error)

	// RecomputeAgreement recomputes a purchase agreement's totals.
	RecomputeAgreement(ctx context.Context, a *core.PurchaseAgreement, isNew bool) (*AgreementResult, error)

	// RecomputeRequisition recomputes a purchase requisition's totals.
	RecomputeRequisition(ctx context.Context, r *core.PurchaseRequisition) (*RequisitionResult, error)

	// ChangeRequisitionStatus moves a requisition through its lifecycle. The
	// change is applied to r only; the caller persists it. Only requisitions
	// with an id are audited.
	ChangeRequisitionStatus(ctx context.Context, r *core.PurchaseRequisition, target core.RequisitionStatus) (*RequisitionResult, error)

	// ChangeAgreementStatus moves an agreement through its lifecycle. Like
	// ChangeRequisitionStatus it works on the given document only.
	ChangeAgreementStatus(ctx context.Context, a *core.PurchaseAgreement, target core.AgreementStatus) (*AgreementResult, error)
}
