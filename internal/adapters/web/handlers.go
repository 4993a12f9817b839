package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"procure-to-pay/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	schemas   *schemaRegistry
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log zerolog.Logger, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
		schemas:   newSchemaRegistry(),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/schemas", h.listSchemas)
	r.Get("/api/schemas/{document}", h.getSchema)

	// ── Protected API routes (401 JSON if unauthenticated) ──────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Purchasing
		r.Get("/api/purchase-orders", h.apiListPurchaseOrders)
		r.Post("/api/purchase-orders", h.apiSubmitPurchaseOrder)
		r.Get("/api/purchase-orders/export", h.apiExportPurchaseOrders)
		r.Post("/api/purchase-orders/recompute", h.apiRecomputePurchaseOrder)
		r.Post("/api/purchase-orders/{id}/approval", h.apiDecidePurchaseOrderApproval)
		r.Post("/api/purchase-orders/{id}/grn", h.apiStartGRN)

		r.Get("/api/grns", h.apiListGRNs)
		r.Post("/api/grns", h.apiSubmitGRN)
		r.Delete("/api/grns/{id}", h.apiDeleteGRN)
		r.Post("/api/grns/edit-line", h.apiEditGRNLine)

		r.Post("/api/agreements/recompute", h.apiRecomputeAgreement)
		r.Post("/api/agreements/status", h.apiChangeAgreementStatus)
		r.Post("/api/requisitions/recompute", h.apiRecomputeRequisition)
		r.Post("/api/requisitions/status", h.apiChangeRequisitionStatus)

		r.Get("/api/suppliers/{id}/site", h.apiResolveSupplierSite)

		// Receivables
		r.Get("/api/customers", h.apiListCustomers)
		r.Get("/api/customers/{id}/site", h.apiResolveCustomerSite)

		r.Get("/api/invoices", h.apiListInvoices)
		r.Post("/api/invoices", h.apiSubmitInvoice)
		r.Post("/api/invoices/dates", h.apiReconcileInvoiceDates)
		r.Post("/api/invoices/{id}/status", h.apiChangeInvoiceStatus)

		r.Get("/api/receipts", h.apiListReceipts)
		r.Post("/api/receipts/applications", h.apiAddReceiptApplication)
		r.Post("/api/receipts/draft", h.apiSaveReceiptDraft)
		r.Post("/api/receipts/finalize", h.apiFinalizeReceipt)
		r.Get("/api/receipts/{id}/edit", h.apiPrepareReceiptForEdit)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "id must be a positive integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryBool reads a boolean query parameter; absent or malformed means false.
func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// queryIntPtr reads an optional integer query parameter.
func queryIntPtr(r *http.Request, key string) *int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
