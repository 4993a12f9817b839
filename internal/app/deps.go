package app

import (
	"context"
	"errors"
	"net/url"

	"procure-to-pay/internal/api"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/store"
)

// Backend is the part of the REST client the service calls. *api.Client
// satisfies it.
type Backend interface {
	core.DraftReceiptFinder

	ListPurchaseOrders(ctx context.Context, params url.Values) (*api.List[core.PurchaseOrder], error)
	GetPurchaseOrder(ctx context.Context, id int) (*api.Document[core.PurchaseOrder], error)
	CreatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*api.Document[core.PurchaseOrder], error)
	UpdatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*api.Document[core.PurchaseOrder], error)
	UpdatePurchaseOrderApproval(ctx context.Context, id int, status core.POStatus, approval core.ApprovalStatus) error

	ListGRNs(ctx context.Context, params url.Values) (*api.List[core.GRN], error)
	GetGRN(ctx context.Context, id int) (*api.Document[core.GRN], error)
	CreateGRN(ctx context.Context, g *core.GRN) (*api.Document[core.GRN], error)
	UpdateGRN(ctx context.Context, g *core.GRN) (*api.Document[core.GRN], error)
	DeleteGRN(ctx context.Context, id int) error

	ListInvoices(ctx context.Context, params url.Values) (*api.List[core.Invoice], error)
	GetInvoice(ctx context.Context, id int) (*api.Document[core.Invoice], error)
	CreateInvoice(ctx context.Context, inv *core.Invoice) (*api.Document[core.Invoice], error)
	UpdateInvoiceStatus(ctx context.Context, id int, update api.StatusUpdate) error

	ListReceipts(ctx context.Context, params url.Values) (*api.List[core.Receipt], error)
	GetReceipt(ctx context.Context, id int) (*api.Document[core.Receipt], error)
	CreateReceipt(ctx context.Context, r *core.Receipt) (*api.Document[core.Receipt], error)
	UpdateReceipt(ctx context.Context, r *core.Receipt) (*api.Document[core.Receipt], error)

	ListCustomers(ctx context.Context) ([]api.Customer, error)
	CustomerSites(ctx context.Context, customerID int) ([]core.Site, error)
	SupplierSites(ctx context.Context, supplierID int) ([]core.Site, error)
}

// Store is the optional local persistence. *store.Store satisfies it.
type Store interface {
	core.DraftReceiptFinder

	SyncDraftReceipt(ctx context.Context, r *core.Receipt) error
	RecordTransition(ctx context.Context, t store.Transition) error
}

var (
	_ Backend = (*api.Client)(nil)
	_ Store   = (*store.Store)(nil)
)

// finders merges conflict lookups. The combined lookup fails only when every
// finder fails, so an unreachable local index never hides backend results.
type finders []core.DraftReceiptFinder

func (fs finders) FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]core.DraftConflict, error) {
	type key struct{ invoice, receipt string }
	seen := make(map[key]bool)
	var out []core.DraftConflict
	var errs []error
	for _, f := range fs {
		found, err := f.FindDraftConflicts(ctx, invoiceIDs, excludeReceiptID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, c := range found {
			k := key{c.InvoiceNumber, c.ReceiptNumber}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, c)
		}
	}
	if len(errs) == len(fs) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
