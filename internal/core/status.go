package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the approval axis shared by purchase orders and invoices.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// POStatus is the lifecycle status of a purchase order.
type POStatus string

const (
	POStatusDraft     POStatus = "DRAFT"
	POStatusApproved  POStatus = "APPROVED"
	POStatusReleased  POStatus = "RELEASED"
	POStatusReceived  POStatus = "RECEIVED"
	POStatusClosed    POStatus = "CLOSED"
	POStatusCancelled POStatus = "CANCELLED"
)

// InvoiceStatus is the lifecycle status of an AR invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusOpen      InvoiceStatus = "OPEN"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusVoid      InvoiceStatus = "VOID"
)

// ReceiptStatus is the lifecycle status of an AR receipt.
type ReceiptStatus string

const (
	ReceiptStatusDraft ReceiptStatus = "DRAFT"
	ReceiptStatusPaid  ReceiptStatus = "PAID"
)

// RequisitionStatus is the lifecycle status of a purchase requisition.
type RequisitionStatus string

const (
	RequisitionStatusDraft           RequisitionStatus = "DRAFT"
	RequisitionStatusPendingApproval RequisitionStatus = "PENDING_APPROVAL"
	RequisitionStatusApproved        RequisitionStatus = "APPROVED"
	RequisitionStatusRejected        RequisitionStatus = "REJECTED"
	RequisitionStatusConverted       RequisitionStatus = "CONVERTED"
	RequisitionStatusCancelled       RequisitionStatus = "CANCELLED"
)

// AgreementStatus is the lifecycle status of a purchase agreement.
type AgreementStatus string

const (
	AgreementStatusDraft     AgreementStatus = "DRAFT"
	AgreementStatusActive    AgreementStatus = "ACTIVE"
	AgreementStatusExpired   AgreementStatus = "EXPIRED"
	AgreementStatusClosed    AgreementStatus = "CLOSED"
	AgreementStatusCancelled AgreementStatus = "CANCELLED"
)

var poTransitions = map[POStatus][]POStatus{
	POStatusDraft:    {POStatusApproved, POStatusCancelled},
	POStatusApproved: {POStatusReleased, POStatusCancelled},
	POStatusReleased: {POStatusReceived, POStatusCancelled},
	POStatusReceived: {POStatusClosed},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {InvoiceStatusOpen, InvoiceStatusCancelled},
	InvoiceStatusOpen:  {InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusVoid},
	InvoiceStatusPaid:  {InvoiceStatusVoid},
}

var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalRejected: {ApprovalPending},
}

var requisitionTransitions = map[RequisitionStatus][]RequisitionStatus{
	RequisitionStatusDraft:           {RequisitionStatusPendingApproval, RequisitionStatusCancelled},
	RequisitionStatusPendingApproval: {RequisitionStatusApproved, RequisitionStatusRejected, RequisitionStatusCancelled},
	RequisitionStatusApproved:        {RequisitionStatusConverted},
	RequisitionStatusRejected:        {RequisitionStatusDraft},
}

var agreementTransitions = map[AgreementStatus][]AgreementStatus{
	AgreementStatusDraft:  {AgreementStatusActive, AgreementStatusCancelled},
	AgreementStatusActive: {AgreementStatusExpired, AgreementStatusClosed, AgreementStatusCancelled},
}

func allowed[S ~string](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports a status change whose preconditions are not met.
type TransitionError struct {
	Document string
	Field    string
	From     string
	To       string
	Reason   string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %s cannot change from %s to %s", e.Document, e.Field, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap makes transition failures match ErrValidation.
func (e *TransitionError) Unwrap() error { return ErrValidation }

// CanTransitionTo reports whether a PO may move from s to target.
func (s POStatus) CanTransitionTo(target POStatus) bool {
	return allowed(poTransitions, s, target)
}

// CanTransitionTo reports whether an invoice may move from s to target.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	return allowed(invoiceTransitions, s, target)
}

// CanTransitionTo reports whether an approval decision may move from s to target.
func (s ApprovalStatus) CanTransitionTo(target ApprovalStatus) bool {
	return allowed(approvalTransitions, s, target)
}

// CanTransitionTo reports whether a requisition may move from s to target.
func (s RequisitionStatus) CanTransitionTo(target RequisitionStatus) bool {
	return allowed(requisitionTransitions, s, target)
}

// CanTransitionTo reports whether an agreement may move from s to target.
func (s AgreementStatus) CanTransitionTo(target AgreementStatus) bool {
	return allowed(agreementTransitions, s, target)
}

// TransitionPOStatus moves the PO lifecycle status. ApprovalStatus is untouched.
func TransitionPOStatus(po *PurchaseOrder, target POStatus) error {
	if !po.Status.CanTransitionTo(target) {
		return &TransitionError{Document: "purchase order " + po.PONumber, Field: "status", From: string(po.Status), To: string(target)}
	}
	po.Status = target
	return nil
}

// DecidePOApproval applies an approval decision. Status is untouched.
func DecidePOApproval(po *PurchaseOrder, decision ApprovalStatus) error {
	if !po.ApprovalStatus.CanTransitionTo(decision) {
		return &TransitionError{Document: "purchase order " + po.PONumber, Field: "approval status", From: string(po.ApprovalStatus), To: string(decision)}
	}
	po.ApprovalStatus = decision
	return nil
}

// CanCreateGRN reports whether goods may be received against po.
func CanCreateGRN(po *PurchaseOrder) bool {
	return po.ApprovalStatus == ApprovalApproved
}

// RequireGRNAllowed returns a *TransitionError unless goods may be received
// against po.
func RequireGRNAllowed(po *PurchaseOrder) error {
	if CanCreateGRN(po) {
		return nil
	}
	return &TransitionError{
		Document: "purchase order " + po.PONumber,
		Field:    "approval status",
		From:     string(po.ApprovalStatus),
		To:       "GRN",
		Reason:   "goods can only be received against an APPROVED purchase order",
	}
}

// RequireGRNDraft returns a *TransitionError unless g is still DRAFT.
func RequireGRNDraft(g *GRN) error {
	if g.Status == GRNStatusDraft || g.Status == "" {
		return nil
	}
	return &TransitionError{
		Document: "GRN " + g.GRNNumber,
		Field:    "status",
		From:     string(g.Status),
		To:       "deleted",
		Reason:   "only a DRAFT goods received note can be deleted",
	}
}

// TransitionInvoiceStatus moves the invoice lifecycle status.
func TransitionInvoiceStatus(inv *Invoice, target InvoiceStatus) error {
	if !inv.Status.CanTransitionTo(target) {
		return &TransitionError{Document: "invoice " + inv.InvoiceNumber, Field: "status", From: string(inv.Status), To: string(target)}
	}
	inv.Status = target
	return nil
}

// DecideInvoiceApproval applies an approval decision to an invoice.
// Approving requires the invoice to be PAID.
func DecideInvoiceApproval(inv *Invoice, decision ApprovalStatus) error {
	if decision == ApprovalApproved && inv.Status != InvoiceStatusPaid {
		return &TransitionError{
			Document: "invoice " + inv.InvoiceNumber,
			Field:    "approval status",
			From:     string(inv.ApprovalStatus),
			To:       string(decision),
			Reason:   fmt.Sprintf("invoice status is %s (must be PAID)", inv.Status),
		}
	}
	if !inv.ApprovalStatus.CanTransitionTo(decision) {
		return &TransitionError{Document: "invoice " + inv.InvoiceNumber, Field: "approval status", From: string(inv.ApprovalStatus), To: string(decision)}
	}
	inv.ApprovalStatus = decision
	return nil
}

// FinalizeReceipt moves a DRAFT receipt to PAID. A stored PAID receipt that
// was edited is saved again as PAID; an unsaved one cannot already be PAID.
func FinalizeReceipt(r *Receipt) error {
	switch {
	case r.Status == ReceiptStatusDraft, r.Status == "":
	case r.Status == ReceiptStatusPaid && r.ID != 0:
	default:
		return &TransitionError{Document: "receipt " + r.ReceiptNumber, Field: "status", From: string(r.Status), To: string(ReceiptStatusPaid)}
	}
	r.Status = ReceiptStatusPaid
	return nil
}

// TransitionRequisitionStatus moves the requisition lifecycle status.
func TransitionRequisitionStatus(req *PurchaseRequisition, target RequisitionStatus) error {
	if !req.Status.CanTransitionTo(target) {
		return &TransitionError{Document: "requisition " + req.RequisitionNumber, Field: "status", From: string(req.Status), To: string(target)}
	}
	req.Status = target
	return nil
}

// TransitionAgreementStatus moves the agreement lifecycle status.
func TransitionAgreementStatus(a *PurchaseAgreement, target AgreementStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return &TransitionError{Document: "agreement " + a.AgreementNumber, Field: "status", From: string(a.Status), To: string(target)}
	}
	a.Status = target
	return nil
}

// OriginalAmountDue returns the amount due on an invoice before the given
// application was made. Once a receipt is PAID the backend has already
// decremented the invoice, so the original is the live balance plus the
// amount this receipt applied.
func OriginalAmountDue(receiptStatus ReceiptStatus, app ReceiptApplication, liveAmountDue decimal.Decimal) decimal.Decimal {
	if receiptStatus == ReceiptStatusPaid {
		return liveAmountDue.Add(app.ApplicationAmount)
	}
	return liveAmountDue
}
