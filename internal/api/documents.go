package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"procure-to-pay/internal/core"
)

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

func getDocument[T any](ctx context.Context, c *Client, path string) (*Document[T], error) {
	payload, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument[T](payload)
}

func getList[T any](ctx context.Context, c *Client, path string) (*List[T], error) {
	payload, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](payload)
}

// sendDocument writes doc and decodes the backend's echo of it. An empty
// response body leaves the caller's copy as the result.
func sendDocument[T any](ctx context.Context, c *Client, method, path string, doc *T) (*Document[T], error) {
	payload, err := c.doRequest(ctx, method, path, doc)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return &Document[T]{Data: doc}, nil
	}
	return decodeDocument[T](payload)
}

// ── Purchase orders ──────────────────────────────────────────────────────────

func (c *Client) ListPurchaseOrders(ctx context.Context, params url.Values) (*List[core.PurchaseOrder], error) {
	return getList[core.PurchaseOrder](ctx, c, withQuery("/purchase-orders", params))
}

func (c *Client) GetPurchaseOrder(ctx context.Context, id int) (*Document[core.PurchaseOrder], error) {
	return getDocument[core.PurchaseOrder](ctx, c, fmt.Sprintf("/purchase-orders/%d", id))
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*Document[core.PurchaseOrder], error) {
	return sendDocument(ctx, c, http.MethodPost, "/purchase-orders", po)
}

func (c *Client) UpdatePurchaseOrder(ctx context.Context, po *core.PurchaseOrder) (*Document[core.PurchaseOrder], error) {
	return sendDocument(ctx, c, http.MethodPut, fmt.Sprintf("/purchase-orders/%d", po.ID), po)
}

// UpdatePurchaseOrderApproval sends the approval and document status together.
func (c *Client) UpdatePurchaseOrderApproval(ctx context.Context, id int, status core.POStatus, approval core.ApprovalStatus) error {
	body := map[string]string{
		"status":         string(status),
		"approvalStatus": string(approval),
	}
	_, err := c.doRequest(ctx, http.MethodPatch, fmt.Sprintf("/purchase-orders/%d/status", id), body)
	return err
}

// ── Goods received notes ─────────────────────────────────────────────────────

func (c *Client) ListGRNs(ctx context.Context, params url.Values) (*List[core.GRN], error) {
	return getList[core.GRN](ctx, c, withQuery("/grns", params))
}

func (c *Client) GetGRN(ctx context.Context, id int) (*Document[core.GRN], error) {
	return getDocument[core.GRN](ctx, c, fmt.Sprintf("/grns/%d", id))
}

func (c *Client) CreateGRN(ctx context.Context, g *core.GRN) (*Document[core.GRN], error) {
	return sendDocument(ctx, c, http.MethodPost, "/grns", g)
}

func (c *Client) UpdateGRN(ctx context.Context, g *core.GRN) (*Document[core.GRN], error) {
	return sendDocument(ctx, c, http.MethodPut, fmt.Sprintf("/grns/%d", g.ID), g)
}

func (c *Client) DeleteGRN(ctx context.Context, id int) error {
	_, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/grns/%d", id), nil)
	return err
}

// ── AR invoices ──────────────────────────────────────────────────────────────

func (c *Client) ListInvoices(ctx context.Context, params url.Values) (*List[core.Invoice], error) {
	return getList[core.Invoice](ctx, c, withQuery("/invoices", params))
}

func (c *Client) GetInvoice(ctx context.Context, id int) (*Document[core.Invoice], error) {
	return getDocument[core.Invoice](ctx, c, fmt.Sprintf("/invoices/%d", id))
}

func (c *Client) CreateInvoice(ctx context.Context, inv *core.Invoice) (*Document[core.Invoice], error) {
	return sendDocument(ctx, c, http.MethodPost, "/invoices", inv)
}

// StatusUpdate is the body of the invoice status endpoint; nil fields are omitted.
type StatusUpdate struct {
	Status         *core.InvoiceStatus  `json:"status,omitempty"`
	ApprovalStatus *core.ApprovalStatus `json:"approvalStatus,omitempty"`
}

func (c *Client) UpdateInvoiceStatus(ctx context.Context, id int, update StatusUpdate) error {
	_, err := c.doRequest(ctx, http.MethodPatch, fmt.Sprintf("/invoices/%d/status", id), update)
	return err
}

// ── AR receipts ──────────────────────────────────────────────────────────────

func (c *Client) ListReceipts(ctx context.Context, params url.Values) (*List[core.Receipt], error) {
	return getList[core.Receipt](ctx, c, withQuery("/receipts", params))
}

func (c *Client) GetReceipt(ctx context.Context, id int) (*Document[core.Receipt], error) {
	return getDocument[core.Receipt](ctx, c, fmt.Sprintf("/receipts/%d", id))
}

func (c *Client) CreateReceipt(ctx context.Context, r *core.Receipt) (*Document[core.Receipt], error) {
	return sendDocument(ctx, c, http.MethodPost, "/receipts", r)
}

func (c *Client) UpdateReceipt(ctx context.Context, r *core.Receipt) (*Document[core.Receipt], error) {
	return sendDocument(ctx, c, http.MethodPut, fmt.Sprintf("/receipts/%d", r.ID), r)
}

type conflictRequest struct {
	InvoiceIDs       []int `json:"invoiceIds"`
	ExcludeReceiptID *int  `json:"excludeReceiptId,omitempty"`
}

type conflictRow struct {
	InvoiceID     int    `json:"invoiceId"`
	InvoiceNumber string `json:"invoiceNumber"`
	ReceiptID     int    `json:"receiptId"`
	ReceiptNumber string `json:"receiptNumber"`
}

// FindDraftConflicts asks the backend which of invoiceIDs already sit in a
// draft receipt other than excludeReceiptID. It satisfies core.DraftReceiptFinder.
func (c *Client) FindDraftConflicts(ctx context.Context, invoiceIDs []int, excludeReceiptID *int) ([]core.DraftConflict, error) {
	payload, err := c.doRequest(ctx, http.MethodPost, "/receipts/check-draft-conflicts", conflictRequest{
		InvoiceIDs:       invoiceIDs,
		ExcludeReceiptID: excludeReceiptID,
	})
	if err != nil {
		return nil, err
	}
	var rows []conflictRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decode conflict check: %w", err)
	}
	out := make([]core.DraftConflict, len(rows))
	for i, r := range rows {
		out[i] = core.DraftConflict(r)
	}
	return out, nil
}

// ── Parties and sites ────────────────────────────────────────────────────────

// Customer is a customer row as listed by the backend.
type Customer struct {
	CustomerID   int    `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	CustomerCode string `json:"customer_code,omitempty"`
	Status       string `json:"status"`
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.getJSON(ctx, "/customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CustomerSites(ctx context.Context, customerID int) ([]core.Site, error) {
	var out []core.Site
	if err := c.getJSON(ctx, fmt.Sprintf("/customers/%d/sites", customerID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SupplierSites(ctx context.Context, supplierID int) ([]core.Site, error) {
	var out []core.Site
	if err := c.getJSON(ctx, fmt.Sprintf("/suppliers/%d/sites", supplierID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ core.DraftReceiptFinder = (*Client)(nil)
