package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procure-to-pay/internal/api"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type appService struct {
	backend Backend
	store   Store
	now     func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
// st may be nil; pass an untyped nil, not a nil *store.Store.
func NewAppService(backend Backend, st Store) ApplicationService {
	return &appService{
		backend: backend,
		store:   st,
		now:     time.Now,
	}
}

func (s *appService) conflictFinder() core.DraftReceiptFinder {
	if s.store == nil {
		return s.backend
	}
	return finders{s.backend, s.store}
}

// issuesOf flattens a validation error into field findings. Other errors
// yield nil.
func issuesOf(err error) []core.FieldError {
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

func required(field string) error {
	return core.ValidationErrors{{Field: field, Message: "is required"}}
}

// audit records a persisted status change. Documents without an id were
// never stored and leave no trail.
func (s *appService) audit(ctx context.Context, docType string, id int, number, field, from, to string) {
	if s.store == nil || id == 0 || from == to {
		return
	}
	err := s.store.RecordTransition(ctx, store.Transition{
		DocumentType:   docType,
		DocumentID:     id,
		DocumentNumber: number,
		Field:          field,
		From:           from,
		To:             to,
		RequestID:      RequestIDFromContext(ctx),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("document_type", docType).Int("document_id", id).Msg("audit write failed")
	}
}

func (s *appService) syncReceipt(ctx context.Context, r *core.Receipt) {
	if s.store == nil || r.ID == 0 {
		return
	}
	if err := s.store.SyncDraftReceipt(ctx, r); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("receipt_id", r.ID).Msg("draft receipt index sync failed")
	}
}

// ── Purchase orders ──────────────────────────────────────────────────────────

// RecomputePurchaseOrder recomputes totals and reports validation findings.
func (s *appService) RecomputePurchaseOrder(ctx context.Context, po *core.PurchaseOrder, isNew bool) (*PurchaseOrderResult, error) {
	if po == nil {
		return nil, required("purchase_order")
	}
	core.RecomputePurchaseOrder(po, isNew)
	return &PurchaseOrderResult{
		PurchaseOrder: po,
		Issues:        issuesOf(core.ValidatePurchaseOrder(po)),
	}, nil
}

// SubmitPurchaseOrder saves a validated purchase order.
func (s *appService) SubmitPurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*PurchaseOrderResult, error) {
	if po == nil {
		return nil, required("purchase_order")
	}
	isNew := po.ID == 0
	core.RecomputePurchaseOrder(po, isNew)
	if err := core.ValidatePurchaseOrder(po); err != nil {
		return nil, err
	}

	save := s.backend.UpdatePurchaseOrder
	if isNew {
		save = s.backend.CreatePurchaseOrder
	}
	doc, err := save(ctx, po)
	if err != nil {
		return nil, fmt.Errorf("save purchase order %s: %w", po.PONumber, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("po_number", doc.Data.PONumber).
		Bool("created", isNew).
		Str("total", doc.Data.TotalAmount.StringFixed(2)).
		Msg("purchase order saved")
	return &PurchaseOrderResult{PurchaseOrder: doc.Data, Warnings: doc.Warnings}, nil
}

// DecidePurchaseOrderApproval approves or rejects a stored purchase order.
func (s *appService) DecidePurchaseOrderApproval(ctx context.Context, req ApprovalRequest) (*PurchaseOrderResult, error) {
	if req.ID == 0 {
		return nil, required("id")
	}
	doc, err := s.backend.GetPurchaseOrder(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %d: %w", req.ID, err)
	}
	po := doc.Data
	if po.ID == 0 {
		po.ID = req.ID
	}

	prev := po.ApprovalStatus
	if err := core.DecidePOApproval(po, req.Decision); err != nil {
		return nil, err
	}
	if err := s.backend.UpdatePurchaseOrderApproval(ctx, po.ID, po.Status, po.ApprovalStatus); err != nil {
		return nil, fmt.Errorf("update approval of purchase order %s: %w", po.PONumber, err)
	}
	s.audit(ctx, "purchase_order", po.ID, po.PONumber, "approval_status", string(prev), string(po.ApprovalStatus))

	zerolog.Ctx(ctx).Info().Str("po_number", po.PONumber).Str("approval_status", string(po.ApprovalStatus)).Msg("purchase order approval decided")
	return &PurchaseOrderResult{PurchaseOrder: po, Warnings: doc.Warnings}, nil
}

// ListPurchaseOrders lists orders from the backend.
func (s *appService) ListPurchaseOrders(ctx context.Context, filter ListFilter) (*PurchaseOrderListResult, error) {
	list, err := s.backend.ListPurchaseOrders(ctx, filter.values())
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return &PurchaseOrderListResult{PurchaseOrders: list.Items, Warnings: list.Warnings}, nil
}

// ── Goods received notes ─────────────────────────────────────────────────────

// StartGRN drafts a GRN for every PO line with quantity left to receive.
func (s *appService) StartGRN(ctx context.Context, req StartGRNRequest) (*GRNResult, error) {
	if req.PurchaseOrderID == 0 {
		return nil, required("po_header_id")
	}
	date := req.ReceiptDate
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	doc, err := s.backend.GetPurchaseOrder(ctx, req.PurchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %d: %w", req.PurchaseOrderID, err)
	}
	po := doc.Data
	if po.ID == 0 {
		po.ID = req.PurchaseOrderID
	}

	g, err := core.NewGRNFromPurchaseOrder(po, date)
	if err != nil {
		return nil, err
	}
	return &GRNResult{GRN: g, Warnings: doc.Warnings}, nil
}

// EditGRNLine applies a single line edit and recomputes the note.
func (s *appService) EditGRNLine(ctx context.Context, req EditGRNLineRequest) (*GRNResult, error) {
	if req.GRN == nil {
		return nil, required("grn")
	}
	if req.LineIndex < 0 || req.LineIndex >= len(req.GRN.Lines) {
		return nil, core.ValidationErrors{{Field: "line_index", Message: fmt.Sprintf("no line at index %d", req.LineIndex)}}
	}

	updated, err := core.ApplyGRNEdit(req.GRN.Lines[req.LineIndex], req.Edit)
	if err != nil {
		return nil, err
	}
	req.GRN.Lines[req.LineIndex] = updated
	core.RecomputeGRN(req.GRN)

	return &GRNResult{
		GRN:    req.GRN,
		Issues: issuesOf(core.ValidateGRN(req.GRN)),
	}, nil
}

// SubmitGRN saves a validated goods received note.
func (s *appService) SubmitGRN(ctx context.Context, g *core.GRN) (*GRNResult, error) {
	if g == nil {
		return nil, required("grn")
	}
	core.RecomputeGRN(g)
	if err := core.ValidateGRN(g); err != nil {
		return nil, err
	}

	isNew := g.ID == 0
	var warnings []string
	save := s.backend.UpdateGRN
	if isNew {
		po, err := s.backend.GetPurchaseOrder(ctx, g.POHeaderID)
		if err != nil {
			return nil, fmt.Errorf("load purchase order %d: %w", g.POHeaderID, err)
		}
		if err := core.RequireGRNAllowed(po.Data); err != nil {
			return nil, err
		}
		warnings = po.Warnings
		save = s.backend.CreateGRN
	}
	doc, err := save(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("save GRN for PO %s: %w", g.PONumber, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("grn_number", doc.Data.GRNNumber).
		Int("po_header_id", doc.Data.POHeaderID).
		Bool("created", isNew).
		Msg("GRN saved")
	return &GRNResult{GRN: doc.Data, Warnings: append(warnings, doc.Warnings...)}, nil
}

// ListGRNs lists goods received notes from the backend.
func (s *appService) ListGRNs(ctx context.Context, filter ListFilter) (*GRNListResult, error) {
	list, err := s.backend.ListGRNs(ctx, filter.values())
	if err != nil {
		return nil, fmt.Errorf("list GRNs: %w", err)
	}
	return &GRNListResult{GRNs: list.Items, Warnings: list.Warnings}, nil
}

// DeleteDraftGRN loads the GRN and deletes it only while it is DRAFT.
func (s *appService) DeleteDraftGRN(ctx context.Context, id int) (*GRNResult, error) {
	if id == 0 {
		return nil, required("id")
	}
	doc, err := s.backend.GetGRN(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load GRN %d: %w", id, err)
	}
	g := doc.Data
	if g.ID == 0 {
		g.ID = id
	}
	if err := core.RequireGRNDraft(g); err != nil {
		return nil, err
	}
	if err := s.backend.DeleteGRN(ctx, g.ID); err != nil {
		return nil, fmt.Errorf("delete GRN %s: %w", g.GRNNumber, err)
	}

	zerolog.Ctx(ctx).Info().Str("grn_number", g.GRNNumber).Int("grn_id", g.ID).Msg("GRN deleted")
	return &GRNResult{GRN: g, Warnings: doc.Warnings}, nil
}

// ── Sites and parties ────────────────────────────────────────────────────────

// ListCustomers returns the backend's customer list.
func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.backend.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return &CustomerListResult{Customers: customers}, nil
}

// ResolveSupplierSite picks a supplier site; purpose defaults to PURCHASING.
func (s *appService) ResolveSupplierSite(ctx context.Context, req SiteRequest) (*SiteResult, error) {
	if req.PartyID == 0 {
		return nil, required("supplier_id")
	}
	sites, err := s.backend.SupplierSites(ctx, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("load sites of supplier %d: %w", req.PartyID, err)
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = core.PurposePurchasing
	}
	return &SiteResult{SiteSelection: core.SelectSite(sites, purpose, req.CurrentSiteID)}, nil
}

// ResolveCustomerSite picks a customer site; purpose defaults to BILL_TO.
func (s *appService) ResolveCustomerSite(ctx context.Context, req SiteRequest) (*SiteResult, error) {
	if req.PartyID == 0 {
		return nil, required("customer_id")
	}
	sites, err := s.backend.CustomerSites(ctx, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("load sites of customer %d: %w", req.PartyID, err)
	}
	purpose := req.Purpose
	if purpose == "" {
		purpose = core.PurposeBillTo
	}
	return &SiteResult{SiteSelection: core.SelectSite(sites, purpose, req.CurrentSiteID)}, nil
}

// ── AR invoices ──────────────────────────────────────────────────────────────

// ReconcileInvoiceDates runs date reconciliation for the edited field.
func (s *appService) ReconcileInvoiceDates(ctx context.Context, inv *core.Invoice, edited core.EditedField) (*InvoiceResult, error) {
	if inv == nil {
		return nil, required("invoice")
	}
	if err := core.ApplyInvoiceDates(inv, edited); err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: inv}, nil
}

// ListInvoices lists AR invoices from the backend.
func (s *appService) ListInvoices(ctx context.Context, filter ListFilter) (*InvoiceListResult, error) {
	list, err := s.backend.ListInvoices(ctx, filter.values())
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return &InvoiceListResult{Invoices: list.Items, Warnings: list.Warnings}, nil
}

// SubmitInvoice creates a validated invoice. Stored invoices only change
// through ChangeInvoiceStatus.
func (s *appService) SubmitInvoice(ctx context.Context, inv *core.Invoice) (*InvoiceResult, error) {
	if inv == nil {
		return nil, required("invoice")
	}
	if inv.ID != 0 {
		return nil, core.ValidationErrors{{Field: "invoice_id", Message: "invoice is already submitted"}}
	}
	if inv.DueDate == "" {
		if err := core.ApplyInvoiceDates(inv, core.EditedPaymentTerms); err != nil {
			return nil, err
		}
	}
	if inv.Status == "" {
		inv.Status = core.InvoiceStatusDraft
	}
	if inv.ApprovalStatus == "" {
		inv.ApprovalStatus = core.ApprovalPending
	}
	core.RecomputeInvoice(inv, true)
	if err := core.ValidateInvoice(inv); err != nil {
		return nil, err
	}

	doc, err := s.backend.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice %s: %w", inv.InvoiceNumber, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("invoice_number", doc.Data.InvoiceNumber).
		Str("total", doc.Data.TotalAmount.StringFixed(2)).
		Msg("invoice created")
	return &InvoiceResult{Invoice: doc.Data, Warnings: doc.Warnings}, nil
}

// ChangeInvoiceStatus applies the requested status and approval changes.
func (s *appService) ChangeInvoiceStatus(ctx context.Context, req InvoiceStatusRequest) (*InvoiceResult, error) {
	if req.ID == 0 {
		return nil, required("id")
	}
	if req.Status == nil && req.ApprovalStatus == nil {
		return nil, core.ValidationErrors{{Field: "status", Message: "status or approval_status is required"}}
	}

	doc, err := s.backend.GetInvoice(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %d: %w", req.ID, err)
	}
	inv := doc.Data
	if inv.ID == 0 {
		inv.ID = req.ID
	}

	prevStatus, prevApproval := inv.Status, inv.ApprovalStatus
	if req.Status != nil {
		if err := core.TransitionInvoiceStatus(inv, *req.Status); err != nil {
			return nil, err
		}
	}
	if req.ApprovalStatus != nil {
		if err := core.DecideInvoiceApproval(inv, *req.ApprovalStatus); err != nil {
			return nil, err
		}
	}

	update := api.StatusUpdate{Status: req.Status, ApprovalStatus: req.ApprovalStatus}
	if err := s.backend.UpdateInvoiceStatus(ctx, inv.ID, update); err != nil {
		return nil, fmt.Errorf("update status of invoice %s: %w", inv.InvoiceNumber, err)
	}
	s.audit(ctx, "invoice", inv.ID, inv.InvoiceNumber, "status", string(prevStatus), string(inv.Status))
	s.audit(ctx, "invoice", inv.ID, inv.InvoiceNumber, "approval_status", string(prevApproval), string(inv.ApprovalStatus))

	return &InvoiceResult{Invoice: inv, Warnings: doc.Warnings}, nil
}

// ── AR receipts ──────────────────────────────────────────────────────────────

// ListReceipts lists AR receipts from the backend.
func (s *appService) ListReceipts(ctx context.Context, filter ListFilter) (*ReceiptListResult, error) {
	list, err := s.backend.ListReceipts(ctx, filter.values())
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return &ReceiptListResult{Receipts: list.Items, Warnings: list.Warnings}, nil
}

// AddReceiptApplication adds an invoice to a receipt when no other draft holds it.
func (s *appService) AddReceiptApplication(ctx context.Context, req AddApplicationRequest) (*ReceiptResult, error) {
	if req.Receipt == nil {
		return nil, required("receipt")
	}
	if req.InvoiceID == 0 {
		return nil, required("invoice_id")
	}

	r := req.Receipt
	if err := core.CheckDraftConflicts(ctx, s.conflictFinder(), []int{req.InvoiceID}, receiptRef(r)); err != nil {
		return nil, err
	}
	amount := req.AmountDue
	if req.Amount != nil {
		amount = *req.Amount
	}
	err := core.AddApplication(r, core.ReceiptApplication{
		InvoiceID:         req.InvoiceID,
		InvoiceNumber:     req.InvoiceNumber,
		AmountDue:         req.AmountDue,
		ApplicationAmount: amount,
	})
	if err != nil {
		return nil, err
	}
	return &ReceiptResult{Receipt: r}, nil
}

// SaveReceiptDraft autosaves a receipt in DRAFT status.
func (s *appService) SaveReceiptDraft(ctx context.Context, r *core.Receipt) (*ReceiptResult, error) {
	if r == nil {
		return nil, required("receipt")
	}
	if r.Status == core.ReceiptStatusPaid {
		return nil, &core.TransitionError{
			Document: "receipt " + r.ReceiptNumber,
			Field:    "status",
			From:     string(r.Status),
			To:       string(core.ReceiptStatusDraft),
			Reason:   "a PAID receipt cannot be saved as a draft",
		}
	}
	if r.CustomerID == 0 {
		return nil, required("customer_id")
	}
	if err := core.ValidateReceiptDraft(r); err != nil {
		return nil, err
	}
	r.Status = core.ReceiptStatusDraft
	r.ExchangeRate = core.NormalizeExchangeRate(r.ExchangeRate)

	doc, err := s.saveReceipt(ctx, r)
	if err != nil {
		return nil, err
	}
	s.syncReceipt(ctx, doc.Data)
	zerolog.Ctx(ctx).Debug().Str("receipt_number", doc.Data.ReceiptNumber).Msg("receipt draft saved")
	return &ReceiptResult{Receipt: doc.Data, Warnings: doc.Warnings}, nil
}

// FinalizeReceipt validates, re-checks conflicts and saves the receipt as PAID.
// An edited PAID receipt goes through the same path and stays PAID.
func (s *appService) FinalizeReceipt(ctx context.Context, r *core.Receipt) (*ReceiptResult, error) {
	if r == nil {
		return nil, required("receipt")
	}
	r.ExchangeRate = core.NormalizeExchangeRate(r.ExchangeRate)
	if err := core.ValidateReceipt(r); err != nil {
		return nil, err
	}
	if err := core.CheckDraftConflicts(ctx, s.conflictFinder(), r.InvoiceIDs(), receiptRef(r)); err != nil {
		return nil, err
	}

	prev := r.Status
	if err := core.FinalizeReceipt(r); err != nil {
		return nil, err
	}
	doc, err := s.saveReceipt(ctx, r)
	if err != nil {
		r.Status = prev
		return nil, err
	}
	saved := doc.Data
	s.syncReceipt(ctx, saved)
	s.audit(ctx, "receipt", saved.ID, saved.ReceiptNumber, "status", string(prev), string(saved.Status))

	zerolog.Ctx(ctx).Info().
		Str("receipt_number", saved.ReceiptNumber).
		Str("amount", saved.Amount.StringFixed(2)).
		Int("applications", len(saved.Applications)).
		Bool("resaved", prev == core.ReceiptStatusPaid).
		Msg("receipt finalized")
	return &ReceiptResult{Receipt: saved, Warnings: doc.Warnings}, nil
}

// PrepareReceiptForEdit loads a receipt with each application's amount due
// restored to its pre-receipt value.
func (s *appService) PrepareReceiptForEdit(ctx context.Context, receiptID int) (*ReceiptResult, error) {
	if receiptID == 0 {
		return nil, required("receipt_id")
	}
	doc, err := s.backend.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("load receipt %d: %w", receiptID, err)
	}
	r := doc.Data
	if r.ID == 0 {
		r.ID = receiptID
	}
	warnings := doc.Warnings

	live := make(map[int]decimal.Decimal, len(r.Applications))
	for _, a := range r.Applications {
		inv, err := s.backend.GetInvoice(ctx, a.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("load invoice %d for receipt %s: %w", a.InvoiceID, r.ReceiptNumber, err)
		}
		live[a.InvoiceID] = inv.Data.AmountDue
		warnings = append(warnings, inv.Warnings...)
	}
	core.RestoreOriginalAmountsDue(r, live)
	return &ReceiptResult{Receipt: r, Warnings: warnings}, nil
}

func (s *appService) saveReceipt(ctx context.Context, r *core.Receipt) (*api.Document[core.Receipt], error) {
	save := s.backend.UpdateReceipt
	if r.ID == 0 {
		save = s.backend.CreateReceipt
	}
	doc, err := save(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("save receipt %s: %w", r.ReceiptNumber, err)
	}
	return doc, nil
}

// receiptRef is the id to exclude from the conflict check; nil for a new receipt.
func receiptRef(r *core.Receipt) *int {
	if r.ID == 0 {
		return nil
	}
	id := r.ID
	return &id
}

// ── Agreements and requisitions ──────────────────────────────────────────────

// RecomputeAgreement recomputes agreement totals and reports validation findings.
func (s *appService) RecomputeAgreement(ctx context.Context, a *core.PurchaseAgreement, isNew bool) (*AgreementResult, error) {
	if a == nil {
		return nil, required("agreement")
	}
	core.RecomputeAgreement(a, isNew)
	return &AgreementResult{Agreement: a, Issues: issuesOf(core.ValidateAgreement(a))}, nil
}

// ChangeAgreementStatus moves an agreement; activation requires a valid agreement.
func (s *appService) ChangeAgreementStatus(ctx context.Context, a *core.PurchaseAgreement, target core.AgreementStatus) (*AgreementResult, error) {
	if a == nil {
		return nil, required("agreement")
	}
	if target == core.AgreementStatusActive {
		core.RecomputeAgreement(a, a.ID == 0)
		if err := core.ValidateAgreement(a); err != nil {
			return nil, err
		}
	}
	prev := a.Status
	if err := core.TransitionAgreementStatus(a, target); err != nil {
		return nil, err
	}
	s.audit(ctx, "agreement", a.ID, a.AgreementNumber, "status", string(prev), string(a.Status))
	return &AgreementResult{Agreement: a}, nil
}

// RecomputeRequisition recomputes requisition totals and reports validation findings.
func (s *appService) RecomputeRequisition(ctx context.Context, r *core.PurchaseRequisition) (*RequisitionResult, error) {
	if r == nil {
		return nil, required("requisition")
	}
	core.RecomputeRequisition(r)
	return &RequisitionResult{Requisition: r, Issues: issuesOf(core.ValidateRequisition(r))}, nil
}

// ChangeRequisitionStatus moves a requisition; submitting for approval
// requires a valid requisition.
func (s *appService) ChangeRequisitionStatus(ctx context.Context, r *core.PurchaseRequisition, target core.RequisitionStatus) (*RequisitionResult, error) {
	if r == nil {
		return nil, required("requisition")
	}
	if target == core.RequisitionStatusPendingApproval {
		core.RecomputeRequisition(r)
		if err := core.ValidateRequisition(r); err != nil {
			return nil, err
		}
	}
	prev := r.Status
	if err := core.TransitionRequisitionStatus(r, target); err != nil {
		return nil, err
	}
	s.audit(ctx, "requisition", r.ID, r.RequisitionNumber, "status", string(prev), string(r.Status))
	return &RequisitionResult{Requisition: r}, nil
}
