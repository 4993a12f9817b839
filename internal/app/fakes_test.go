package app_test

import (
	"context"
	"errors"
	"net/url"
	"sort"

	"procure-to-pay/internal/api"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/store"
)

// fakeBackend is an in-memory backend that counts write calls.
type fakeBackend struct {
	purchaseOrders map[int]core.PurchaseOrder
	grns           map[int]core.GRN
	invoices       map[int]core.Invoice
	receipts       map[int]core.Receipt
	supplierSites  map[int][]core.Site
	conflicts      []core.DraftConflict
	conflictErr    error
	writeErr       error

	writes       int
	nextID       int
	statusUpdate *api.StatusUpdate
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		purchaseOrders: map[int]core.PurchaseOrder{},
		grns:           map[int]core.GRN{},
		invoices:       map[int]core.Invoice{},
		receipts:       map[int]core.Receipt{},
		supplierSites:  map[int][]core.Site{},
		nextID:         100,
	}
}

var errNotFound = errors.New("not found")

func (f *fakeBackend) write() error {
	f.writes++
	return f.writeErr
}

func (f *fakeBackend) FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]core.DraftConflict, error) {
	if f.conflictErr != nil {
		return nil, f.conflictErr
	}
	var out []core.DraftConflict
	for _, c := range f.conflicts {
		if excludeReceiptID != nil && c.ReceiptID == *excludeReceiptID {
			continue
		}
		for _, id := range invoiceIDs {
			if c.InvoiceID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeBackend) ListPurchaseOrders(ctx context.Context, params url.Values) (*api.List[core.PurchaseOrder], error) {
	list := &api.List[core.PurchaseOrder]{}
	for _, po := range f.purchaseOrders {
		if s := params.Get("status"); s != "" && string(po.Status) != s {
			continue
		}
		list.Items = append(list.Items, po)
	}
	return list, nil
}

func (f *fakeBackend) GetPurchaseOrder(ctx context.Context, id int) (*api.Document[core.PurchaseOrder], error) {
	po, ok := f.purchaseOrders[id]
	if !ok {
		return nil, &api.APIError{StatusCode: 404, Message: "purchase order not found"}
	}
	return &api.Document[core.PurchaseOrder]{Data: &po}, nil
}

func (f *fakeBackend) CreatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*api.Document[core.PurchaseOrder], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	f.nextID++
	saved := *po
	saved.ID = f.nextID
	f.purchaseOrders[saved.ID] = saved
	return &api.Document[core.PurchaseOrder]{Data: &saved}, nil
}

func (f *fakeBackend) UpdatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*api.Document[core.PurchaseOrder], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	f.purchaseOrders[po.ID] = *po
	saved := *po
	return &api.Document[core.PurchaseOrder]{Data: &saved}, nil
}

func (f *fakeBackend) UpdatePurchaseOrderApproval(ctx context.Context, id int, status core.POStatus, approval core.ApprovalStatus) error {
	if err := f.write(); err != nil {
		return err
	}
	po := f.purchaseOrders[id]
	po.Status, po.ApprovalStatus = status, approval
	f.purchaseOrders[id] = po
	return nil
}

func (f *fakeBackend) CreateGRN(ctx context.Context, g *core.GRN) (*api.Document[core.GRN], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	f.nextID++
	saved := *g
	saved.ID = f.nextID
	f.grns[saved.ID] = saved
	return &api.Document[core.GRN]{Data: &saved}, nil
}

func (f *fakeBackend) UpdateGRN(ctx context.Context, g *core.GRN) (*api.Document[core.GRN], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	saved := *g
	f.grns[saved.ID] = saved
	return &api.Document[core.GRN]{Data: &saved}, nil
}

func (f *fakeBackend) ListGRNs(ctx context.Context, params url.Values) (*api.List[core.GRN], error) {
	return listOf(f.grns, params, func(g core.GRN) string { return string(g.Status) }), nil
}

func (f *fakeBackend) GetGRN(ctx context.Context, id int) (*api.Document[core.GRN], error) {
	g, ok := f.grns[id]
	if !ok {
		return nil, &api.APIError{StatusCode: 404, Message: "GRN not found"}
	}
	return &api.Document[core.GRN]{Data: &g}, nil
}

func (f *fakeBackend) DeleteGRN(ctx context.Context, id int) error {
	if err := f.write(); err != nil {
		return err
	}
	delete(f.grns, id)
	return nil
}

func (f *fakeBackend) ListInvoices(ctx context.Context, params url.Values) (*api.List[core.Invoice], error) {
	return listOf(f.invoices, params, func(inv core.Invoice) string { return string(inv.Status) }), nil
}

func (f *fakeBackend) ListReceipts(ctx context.Context, params url.Values) (*api.List[core.Receipt], error) {
	return listOf(f.receipts, params, func(r core.Receipt) string { return string(r.Status) }), nil
}

// listOf filters docs by the status query parameter, ordered by id.
func listOf[T any](docs map[int]T, params url.Values, status func(T) string) *api.List[T] {
	ids := make([]int, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	list := &api.List[T]{}
	for _, id := range ids {
		if s := params.Get("status"); s != "" && status(docs[id]) != s {
			continue
		}
		list.Items = append(list.Items, docs[id])
	}
	return list
}

func (f *fakeBackend) GetInvoice(ctx context.Context, id int) (*api.Document[core.Invoice], error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, errNotFound
	}
	return &api.Document[core.Invoice]{Data: &inv}, nil
}

func (f *fakeBackend) CreateInvoice(ctx context.Context, inv *core.Invoice) (*api.Document[core.Invoice], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	f.nextID++
	saved := *inv
	saved.ID = f.nextID
	f.invoices[saved.ID] = saved
	return &api.Document[core.Invoice]{Data: &saved}, nil
}

func (f *fakeBackend) UpdateInvoiceStatus(ctx context.Context, id int, update api.StatusUpdate) error {
	if err := f.write(); err != nil {
		return err
	}
	f.statusUpdate = &update
	return nil
}

func (f *fakeBackend) GetReceipt(ctx context.Context, id int) (*api.Document[core.Receipt], error) {
	r, ok := f.receipts[id]
	if !ok {
		return nil, errNotFound
	}
	r.Applications = append([]core.ReceiptApplication(nil), r.Applications...)
	return &api.Document[core.Receipt]{Data: &r}, nil
}

func (f *fakeBackend) CreateReceipt(ctx context.Context, r *core.Receipt) (*api.Document[core.Receipt], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	f.nextID++
	saved := *r
	saved.ID = f.nextID
	f.receipts[saved.ID] = saved
	return &api.Document[core.Receipt]{Data: &saved}, nil
}

func (f *fakeBackend) UpdateReceipt(ctx context.Context, r *core.Receipt) (*api.Document[core.Receipt], error) {
	if err := f.write(); err != nil {
		return nil, err
	}
	saved := *r
	f.receipts[saved.ID] = saved
	return &api.Document[core.Receipt]{Data: &saved}, nil
}

func (f *fakeBackend) ListCustomers(ctx context.Context) ([]api.Customer, error) {
	return []api.Customer{{CustomerID: 1, CustomerName: "Acme", Status: "ACTIVE"}}, nil
}

func (f *fakeBackend) CustomerSites(ctx context.Context, customerID int) ([]core.Site, error) {
	return nil, errNotFound
}

func (f *fakeBackend) SupplierSites(ctx context.Context, supplierID int) ([]core.Site, error) {
	return f.supplierSites[supplierID], nil
}

// fakeStore records what the service pushed to local persistence.
type fakeStore struct {
	synced      []core.Receipt
	transitions []store.Transition
	conflicts   []core.DraftConflict
	findErr     error
}

func (s *fakeStore) FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]core.DraftConflict, error) {
	return s.conflicts, s.findErr
}

func (s *fakeStore) SyncDraftReceipt(ctx context.Context, r *core.Receipt) error {
	s.synced = append(s.synced, *r)
	return nil
}

func (s *fakeStore) RecordTransition(ctx context.Context, t store.Transition) error {
	s.transitions = append(s.transitions, t)
	return nil
}
