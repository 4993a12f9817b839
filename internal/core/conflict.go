package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrConflict is matched by every cross-document conflict.
var ErrConflict = errors.New("document conflict")

// DraftConflict names an invoice that another draft receipt already claims.
type DraftConflict struct {
	InvoiceID     int    `json:"invoice_id,omitempty"`
	InvoiceNumber string `json:"invoice_number"`
	ReceiptID     int    `json:"receipt_id,omitempty"`
	ReceiptNumber string `json:"receipt_number"`
}

func (c DraftConflict) String() string {
	return fmt.Sprintf("Invoice %s is already in draft receipt %s", c.InvoiceNumber, c.ReceiptNumber)
}

// DraftReceiptFinder looks up draft receipts that already apply any of the
// given invoices, ignoring the receipt identified by excludeReceiptID.
type DraftReceiptFinder interface {
	FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]DraftConflict, error)
}

// ConflictError blocks an add or submit because invoices are held by other drafts.
type ConflictError struct {
	Conflicts []DraftConflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		msgs[i] = c.String()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets callers use errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error { return ErrConflict }

// CheckDraftConflicts returns a *ConflictError when any invoice is already in
// another draft receipt.
//
// The check fails open: if the lookup itself errors, the failure is logged to
// the context logger and nil is returned so the user is not blocked.
func CheckDraftConflicts(ctx context.Context, finder DraftReceiptFinder, invoiceIDs []int, excludeReceiptID *int) error {
	if finder == nil || len(invoiceIDs) == 0 {
		return nil
	}
	conflicts, err := finder.FindDraftConflicts(ctx, invoiceIDs, excludeReceiptID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Ints("invoice_ids", invoiceIDs).
			Msg("draft receipt conflict check failed; proceeding without it")
		return nil
	}
	if len(conflicts) == 0 {
		return nil
	}
	return &ConflictError{Conflicts: conflicts}
}
