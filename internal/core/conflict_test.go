package core_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"procure-to-pay/internal/core"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draftIndex is an in-memory DraftReceiptFinder keyed by invoice id.
type draftIndex struct {
	drafts map[int]core.DraftConflict
	err    error
	calls  int
}

func (d *draftIndex) FindDraftConflicts(_ context.Context, invoiceIDs []int, exclude *int) ([]core.DraftConflict, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	var out []core.DraftConflict
	for _, id := range invoiceIDs {
		c, ok := d.drafts[id]
		if !ok || (exclude != nil && c.ReceiptID == *exclude) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func TestCheckDraftConflicts(t *testing.T) {
	idx := &draftIndex{drafts: map[int]core.DraftConflict{
		1: {InvoiceID: 1, InvoiceNumber: "INV-1", ReceiptID: 5, ReceiptNumber: "R-5"},
	}}
	ctx := context.Background()

	other := 8
	err := core.CheckDraftConflicts(ctx, idx, []int{1, 2}, &other)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "Invoice INV-1 is already in draft receipt R-5", err.Error())

	var ce *core.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Conflicts, 1)

	err = core.CheckDraftConflicts(ctx, idx, []int{1, 2}, nil)
	assert.ErrorIs(t, err, core.ErrConflict, "a brand-new receipt has no id to exclude")

	self := 5
	assert.NoError(t, core.CheckDraftConflicts(ctx, idx, []int{1}, &self))
	assert.NoError(t, core.CheckDraftConflicts(ctx, idx, []int{2}, nil))
}

func TestCheckDraftConflicts_FailsOpen(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	idx := &draftIndex{err: errors.New("connection refused")}
	assert.NoError(t, core.CheckDraftConflicts(ctx, idx, []int{1}, nil))
	assert.Equal(t, 1, idx.calls)
	assert.Contains(t, buf.String(), "connection refused")
}

func TestCheckDraftConflicts_NothingToCheck(t *testing.T) {
	idx := &draftIndex{}
	assert.NoError(t, core.CheckDraftConflicts(context.Background(), idx, nil, nil))
	assert.Zero(t, idx.calls)
	assert.NoError(t, core.CheckDraftConflicts(context.Background(), nil, []int{1}, nil))
}
