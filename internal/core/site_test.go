package core_test

import (
	"encoding/json"
	"testing"

	"procure-to-pay/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBool(t *testing.T) {
	truthy := []any{
		true, 1, int8(1), uint(1), 1.0, float32(1), json.Number("1"),
		"1", "true", " TRUE ", "yes", "Yes\n",
		[]byte{1}, []byte{1, 0},
		map[string]any{"type": "Buffer", "data": []any{json.Number("1")}},
		map[string]any{"type": "Buffer", "data": []any{float64(1)}},
	}
	for _, v := range truthy {
		assert.True(t, core.ToBool(v), "%#v should be truthy", v)
	}

	falsy := []any{
		nil, false, 0, 2, 0.5, json.Number("0"), "", "0", "false", "no", "y",
		[]byte{}, []byte{0, 1},
		map[string]any{"type": "Buffer", "data": []any{float64(0)}},
		map[string]any{"data": []any{float64(1)}},
	}
	for _, v := range falsy {
		assert.False(t, core.ToBool(v), "%#v should be falsy", v)
	}
}

func TestFlagDecodesBackendEncodings(t *testing.T) {
	payload := `[
		{"site_id": 1, "is_primary": {"type": "Buffer", "data": [1]}, "status": "ACTIVE"},
		{"site_id": 2, "is_primary": "yes", "status": "ACTIVE"},
		{"site_id": 3, "is_primary": 0, "status": "ACTIVE"},
		{"site_id": 4, "is_primary": null, "status": "ACTIVE"}
	]`
	var sites []core.Site
	require.NoError(t, json.Unmarshal([]byte(payload), &sites))
	assert.True(t, bool(sites[0].IsPrimary))
	assert.True(t, bool(sites[1].IsPrimary))
	assert.False(t, bool(sites[2].IsPrimary))
	assert.False(t, bool(sites[3].IsPrimary))
}

func TestSelectSite_PrimaryWins(t *testing.T) {
	var sites []core.Site
	require.NoError(t, json.Unmarshal([]byte(`[
		{"site_id": 1, "is_primary": "yes", "status": "ACTIVE", "site_type": "PURCHASING"},
		{"site_id": 2, "is_primary": 0, "status": "ACTIVE", "site_type": "PURCHASING"}
	]`), &sites))

	sel := core.SelectSite(sites, core.PurposePurchasing, nil)
	require.NotNil(t, sel.SelectedID)
	assert.Equal(t, 1, *sel.SelectedID)
	assert.True(t, sel.AutoSelected)
}

func TestSelectSite_NoPrimaryMeansNoSelection(t *testing.T) {
	sites := []core.Site{
		{SiteID: 1, Status: "ACTIVE", SiteType: core.SiteTypeBillTo},
		{SiteID: 2, Status: "ACTIVE", SiteType: core.SiteTypeBoth},
	}
	sel := core.SelectSite(sites, core.PurposeBillTo, nil)
	assert.Nil(t, sel.SelectedID)
	assert.Len(t, sel.Candidates, 2)
}

func TestSelectSite_FiltersInactiveAndPurpose(t *testing.T) {
	sites := []core.Site{
		{SiteID: 1, Status: "INACTIVE", SiteType: core.SiteTypePurchasing, IsPrimary: true},
		{SiteID: 2, Status: "ACTIVE", SiteType: core.SiteTypeInvoicing, IsPrimary: true},
		{SiteID: 3, Status: "ACTIVE", SiteType: core.SiteTypeBoth},
	}
	sel := core.SelectSite(sites, core.PurposePurchasing, nil)
	require.Len(t, sel.Candidates, 1)
	assert.Equal(t, 3, sel.Candidates[0].SiteID)
	assert.Nil(t, sel.SelectedID, "the primary site is for invoicing only")
}

func TestSelectSite_FallsBackToAllActive(t *testing.T) {
	sites := []core.Site{
		{SiteID: 5, Status: "ACTIVE", SiteType: core.SiteTypeShipTo, IsPrimary: true},
		{SiteID: 6, Status: "active", SiteType: core.SiteTypeShipTo},
		{SiteID: 7, Status: "INACTIVE", SiteType: core.SiteTypeBillTo},
	}
	sel := core.SelectSite(sites, core.PurposeBillTo, nil)
	assert.Len(t, sel.Candidates, 2)
	require.NotNil(t, sel.SelectedID)
	assert.Equal(t, 5, *sel.SelectedID)
}

func TestSelectSite_KeepsCurrentOnlyWhenStillValid(t *testing.T) {
	sites := []core.Site{
		{SiteID: 1, Status: "ACTIVE", SiteType: core.SiteTypeBoth, IsPrimary: true},
		{SiteID: 2, Status: "ACTIVE", SiteType: core.SiteTypeBoth},
	}
	current := 2
	sel := core.SelectSite(sites, core.PurposePurchasing, &current)
	assert.Equal(t, 2, *sel.SelectedID)
	assert.False(t, sel.AutoSelected)

	stale := 99
	sel = core.SelectSite(sites, core.PurposePurchasing, &stale)
	assert.Equal(t, 1, *sel.SelectedID)
	assert.True(t, sel.AutoSelected)
}
