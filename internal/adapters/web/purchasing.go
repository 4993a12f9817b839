package web

import (
	"net/http"
	"strconv"
	"time"

	"procure-to-pay/internal/app"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/export"

	"github.com/rs/zerolog"
)

// listFilter reads status, search, page and limit from the query string.
func listFilter(r *http.Request) app.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return app.ListFilter{
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     page,
		PageSize: limit,
	}
}

// apiListPurchaseOrders handles GET /api/purchase-orders.
func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiExportPurchaseOrders handles GET /api/purchase-orders/export and streams
// the filtered list as an xlsx workbook.
func (h *Handler) apiExportPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), app.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	f, err := export.PurchaseOrders(result.PurchaseOrders)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now().Format("2006-01-02"))+`"`)
	if err := f.Write(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("write purchase order export")
	}
}

// apiRecomputePurchaseOrder handles POST /api/purchase-orders/recompute?new=true.
func (h *Handler) apiRecomputePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po core.PurchaseOrder
	if !decodeJSON(w, r, &po) {
		return
	}
	result, err := h.svc.RecomputePurchaseOrder(r.Context(), &po, queryBool(r, "new"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSubmitPurchaseOrder handles POST /api/purchase-orders.
func (h *Handler) apiSubmitPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po core.PurchaseOrder
	if !decodeJSON(w, r, &po) {
		return
	}
	result, err := h.svc.SubmitPurchaseOrder(r.Context(), &po)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDecidePurchaseOrderApproval handles POST /api/purchase-orders/{id}/approval.
func (h *Handler) apiDecidePurchaseOrderApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.ApprovalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	result, err := h.svc.DecidePurchaseOrderApproval(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiStartGRN handles POST /api/purchase-orders/{id}/grn.
func (h *Handler) apiStartGRN(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.StartGRNRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.PurchaseOrderID = id
	result, err := h.svc.StartGRN(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiListGRNs handles GET /api/grns.
func (h *Handler) apiListGRNs(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListGRNs(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDeleteGRN handles DELETE /api/grns/{id}.
func (h *Handler) apiDeleteGRN(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteDraftGRN(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiEditGRNLine handles POST /api/grns/edit-line.
func (h *Handler) apiEditGRNLine(w http.ResponseWriter, r *http.Request) {
	var req app.EditGRNLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.EditGRNLine(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSubmitGRN handles POST /api/grns.
func (h *Handler) apiSubmitGRN(w http.ResponseWriter, r *http.Request) {
	var g core.GRN
	if !decodeJSON(w, r, &g) {
		return
	}
	result, err := h.svc.SubmitGRN(r.Context(), &g)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecomputeAgreement handles POST /api/agreements/recompute?new=true.
func (h *Handler) apiRecomputeAgreement(w http.ResponseWriter, r *http.Request) {
	var a core.PurchaseAgreement
	if !decodeJSON(w, r, &a) {
		return
	}
	result, err := h.svc.RecomputeAgreement(r.Context(), &a, queryBool(r, "new"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiChangeAgreementStatus handles POST /api/agreements/status.
func (h *Handler) apiChangeAgreementStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Agreement *core.PurchaseAgreement `json:"agreement"`
		Target    core.AgreementStatus    `json:"target"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.ChangeAgreementStatus(r.Context(), req.Agreement, req.Target)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecomputeRequisition handles POST /api/requisitions/recompute.
func (h *Handler) apiRecomputeRequisition(w http.ResponseWriter, r *http.Request) {
	var req core.PurchaseRequisition
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecomputeRequisition(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiChangeRequisitionStatus handles POST /api/requisitions/status.
func (h *Handler) apiChangeRequisitionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requisition *core.PurchaseRequisition `json:"requisition"`
		Target      core.RequisitionStatus    `json:"target"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.ChangeRequisitionStatus(r.Context(), req.Requisition, req.Target)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiResolveSupplierSite handles GET /api/suppliers/{id}/site?purpose=&current=.
func (h *Handler) apiResolveSupplierSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.ResolveSupplierSite(r.Context(), app.SiteRequest{
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
