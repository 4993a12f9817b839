package core

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// Site is a supplier or customer address.
type Site struct {
	SiteID    int      `json:"site_id"`
	SiteName  string   `json:"site_name"`
	SiteType  SiteType `json:"site_type"`
	IsPrimary Flag     `json:"is_primary"`
	Status    string   `json:"status"`
}

// SiteType classifies what a site may be used for.
type SiteType string

const (
	SiteTypePurchasing SiteType = "PURCHASING"
	SiteTypeInvoicing  SiteType = "INVOICING"
	SiteTypeBillTo     SiteType = "BILL_TO"
	SiteTypeShipTo     SiteType = "SHIP_TO"
	SiteTypeBoth       SiteType = "BOTH"
)

// SitePurpose is what the document needs a site for.
type SitePurpose string

const (
	PurposePurchasing SitePurpose = "PURCHASING"
	PurposeInvoicing  SitePurpose = "INVOICING"
	PurposeBillTo     SitePurpose = "BILL_TO"
	PurposeShipTo     SitePurpose = "SHIP_TO"
)

const siteStatusActive = "ACTIVE"

// Flag is a boolean that decodes every truthy encoding the backend emits for
// MySQL BIT/TINYINT columns.
type Flag bool

// UnmarshalJSON decodes raw through ToBool.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*f = Flag(ToBool(raw))
	return nil
}

// ToBool normalises a loosely typed flag. True values are: boolean true, any
// numeric 1, the strings "1", "true" and "yes" (trimmed, case-insensitive), a
// byte slice whose first byte is 1, and a serialised Node Buffer
// {"type":"Buffer","data":[1,...]}. Everything else is false.
func ToBool(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case Flag:
		return bool(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}
		return false
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 1
	case []byte:
		return len(v) > 0 && v[0] == 1
	case map[string]any:
		if t, _ := v["type"].(string); t != "Buffer" {
			return false
		}
		data, ok := v["data"].([]any)
		return ok && len(data) > 0 && ToBool(data[0])
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 1
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && f == 1
	}
	return false
}

func (p SitePurpose) matches(t SiteType) bool {
	t = SiteType(strings.ToUpper(strings.TrimSpace(string(t))))
	return t == SiteType(p) || t == SiteTypeBoth
}

// CandidateSites returns the active sites usable for purpose. When no active
// site matches the purpose, every active site is returned so the picker is
// never empty while active sites exist.
func CandidateSites(sites []Site, purpose SitePurpose) []Site {
	var active, matching []Site
	for _, s := range sites {
		if !strings.EqualFold(strings.TrimSpace(s.Status), siteStatusActive) {
			continue
		}
		active = append(active, s)
		if purpose.matches(s.SiteType) {
			matching = append(matching, s)
		}
	}
	if len(matching) == 0 {
		return active
	}
	return matching
}

// SiteSelection is the outcome of resolving a counterparty's sites.
type SiteSelection struct {
	Candidates []Site `json:"candidates"`
	SelectedID *int   `json:"selected_site_id"`

	// AutoSelected is true when SelectedID came from the primary flag rather
	// than the caller's current choice.
	AutoSelected bool `json:"auto_selected"`
}

// SelectSite resolves the site picker for a freshly loaded site list.
//
// A current selection that is still a candidate is kept. Otherwise the primary
// candidate is chosen; with no primary candidate nothing is selected and the
// user has to choose.
func SelectSite(sites []Site, purpose SitePurpose, currentID *int) SiteSelection {
	sel := SiteSelection{Candidates: CandidateSites(sites, purpose)}
	if currentID != nil {
		for _, s := range sel.Candidates {
			if s.SiteID == *currentID {
				id := s.SiteID
				sel.SelectedID = &id
				return sel
			}
		}
	}
	for _, s := range sel.Candidates {
		if s.IsPrimary {
			id := s.SiteID
			sel.SelectedID = &id
			sel.AutoSelected = true
			return sel
		}
	}
	return sel
}
