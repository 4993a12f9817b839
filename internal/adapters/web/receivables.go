package web

import (
	"net/http"

	"procure-to-pay/internal/app"
	"procure-to-pay/internal/core"
)

// apiListCustomers handles GET /api/customers.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListInvoices handles GET /api/invoices.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListReceipts handles GET /api/receipts.
func (h *Handler) apiListReceipts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListReceipts(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiResolveCustomerSite handles GET /api/customers/{id}/site?purpose=&current=.
func (h *Handler) apiResolveCustomerSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ResolveCustomerSite(r.Context(), app.SiteRequest{
		PartyID:       id,
		Purpose:       core.SitePurpose(r.URL.Query().Get("purpose")),
		CurrentSiteID: queryIntPtr(r, "current"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiReconcileInvoiceDates handles POST /api/invoices/dates?edited=due_date.
func (h *Handler) apiReconcileInvoiceDates(w http.ResponseWriter, r *http.Request) {
	var inv core.Invoice
	if !decodeJSON(w, r, &inv) {
		return
	}
	edited := core.EditedField(r.URL.Query().Get("edited"))
	result, err := h.svc.ReconcileInvoiceDates(r.Context(), &inv, edited)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSubmitInvoice handles POST /api/invoices.
func (h *Handler) apiSubmitInvoice(w http.ResponseWriter, r *http.Request) {
	var inv core.Invoice
	if !decodeJSON(w, r, &inv) {
		return
	}
	result, err := h.svc.SubmitInvoice(r.Context(), &inv)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiChangeInvoiceStatus handles POST /api/invoices/{id}/status.
func (h *Handler) apiChangeInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.InvoiceStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	result, err := h.svc.ChangeInvoiceStatus(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiAddReceiptApplication handles POST /api/receipts/applications.
func (h *Handler) apiAddReceiptApplication(w http.ResponseWriter, r *http.Request) {
	var req app.AddApplicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AddReceiptApplication(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSaveReceiptDraft handles POST /api/receipts/draft.
func (h *Handler) apiSaveReceiptDraft(w http.ResponseWriter, r *http.Request) {
	var rc core.Receipt
	if !decodeJSON(w, r, &rc) {
		return
	}
	result, err := h.svc.SaveReceiptDraft(r.Context(), &rc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiFinalizeReceipt handles POST /api/receipts/finalize.
func (h *Handler) apiFinalizeReceipt(w http.ResponseWriter, r *http.Request) {
	var rc core.Receipt
	if !decodeJSON(w, r, &rc) {
		return
	}
	result, err := h.svc.FinalizeReceipt(r.Context(), &rc)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiPrepareReceiptForEdit handles GET /api/receipts/{id}/edit.
func (h *Handler) apiPrepareReceiptForEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.PrepareReceiptForEdit(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
