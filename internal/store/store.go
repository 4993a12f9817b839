// Package store is the optional Postgres persistence used alongside the
// backend: a local index of invoices held by draft receipts and an audit log
// of document status changes.
package store

import (
	"context"
	"fmt"
	"time"

	"procure-to-pay/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SyncDraftReceipt replaces the indexed applications of r. Only DRAFT
// receipts keep rows; any other status clears them.
func (s *Store) SyncDraftReceipt(ctx context.Context, r *core.Receipt) error {
	if r.ID == 0 {
		return fmt.Errorf("sync draft receipt: receipt has no id")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DELETE FROM draft_receipt_applications WHERE receipt_id = $1", r.ID); err != nil {
		return fmt.Errorf("clear receipt %d: %w", r.ID, err)
	}

	if r.Status == core.ReceiptStatusDraft || r.Status == "" {
		batch := &pgx.Batch{}
		for _, a := range r.Applications {
			batch.Queue(`
				INSERT INTO draft_receipt_applications (receipt_id, receipt_number, invoice_id, invoice_number, updated_at)
				VALUES ($1, $2, $3, $4, now())`,
				r.ID, r.ReceiptNumber, a.InvoiceID, a.InvoiceNumber)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("index receipt %d: %w", r.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sync: %w", err)
	}
	return nil
}

// FindDraftConflicts implements core.DraftReceiptFinder against the local index.
func (s *Store) FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]core.DraftConflict, error) {
	exclude := 0
	if excludeReceiptID != nil {
		exclude = *excludeReceiptID
	}
	rows, err := s.pool.Query(ctx, `
		SELECT invoice_id, invoice_number, receipt_id, receipt_number
		FROM draft_receipt_applications
		WHERE invoice_id = ANY($1) AND receipt_id <> $2
		ORDER BY invoice_number, receipt_number`,
		invoiceIDs, exclude)
	if err != nil {
		return nil, fmt.Errorf("query draft conflicts: %w", err)
	}
	defer rows.Close()

	var out []core.DraftConflict
	for rows.Next() {
		var c core.DraftConflict
		if err := rows.Scan(&c.InvoiceID, &c.InvoiceNumber, &c.ReceiptID, &c.ReceiptNumber); err != nil {
			return nil, fmt.Errorf("scan draft conflict: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Transition is one recorded status or approval change.
type Transition struct {
	ID             int64     `json:"id"`
	DocumentType   string    `json:"document_type"`
	DocumentID     int       `json:"document_id"`
	DocumentNumber string    `json:"document_number"`
	Field          string    `json:"field"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	RequestID      string    `json:"request_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordTransition appends t to the audit log.
func (s *Store) RecordTransition(ctx context.Context, t Transition) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO document_transitions (document_type, document_id, document_number, field, from_value, to_value, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.DocumentType, t.DocumentID, t.DocumentNumber, t.Field, t.From, t.To, t.RequestID)
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

// ListTransitions returns the audit trail of one document, oldest first.
func (s *Store) ListTransitions(ctx context.Context, documentType string, documentID int) ([]Transition, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, document_type, document_id, document_number, field, from_value, to_value, request_id, created_at
		FROM document_transitions
		WHERE document_type = $1 AND document_id = $2
		ORDER BY id`,
		documentType, documentID)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		if err := rows.Scan(&t.ID, &t.DocumentType, &t.DocumentID, &t.DocumentNumber,
			&t.Field, &t.From, &t.To, &t.RequestID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ core.DraftReceiptFinder = (*Store)(nil)
