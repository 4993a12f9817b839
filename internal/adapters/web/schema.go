package web

import (
	"net/http"
	"reflect"
	"sort"

	"procure-to-pay/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// schemaRegistry serves JSON Schemas of the document payloads so form
// builders can generate inputs and client-side checks.
type schemaRegistry struct {
	schemas map[string]*jsonschema.Schema
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func newSchemaRegistry() *schemaRegistry {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				// decimal.Decimal marshals as a quoted string.
				return &jsonschema.Schema{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`}
			}
			return nil
		},
	}
	return &schemaRegistry{schemas: map[string]*jsonschema.Schema{
		"purchase-order": reflector.Reflect(&core.PurchaseOrder{}),
		"agreement":      reflector.Reflect(&core.PurchaseAgreement{}),
		"requisition":    reflector.Reflect(&core.PurchaseRequisition{}),
		"grn":            reflector.Reflect(&core.GRN{}),
		"invoice":        reflector.Reflect(&core.Invoice{}),
		"receipt":        reflector.Reflect(&core.Receipt{}),
		"site":           reflector.Reflect(&core.Site{}),
	}}
}

func (s *schemaRegistry) names() []string {
	out := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// listSchemas handles GET /api/schemas.
func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"documents": h.schemas.names()})
}

// getSchema handles GET /api/schemas/{document}.
func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "document")
	schema, ok := h.schemas.schemas[name]
	if !ok {
		writeError(w, r, "unknown document type "+name, "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, schema)
}
