package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVendor() VendorProfile {
	return VendorProfile{
		ID:           "vendor_1",
		Name:         "Bloom & Co",
		Category:     VendorCategoryFlorist,
		Reliability:  0.9,
		CommonIssues: []OrderStatus{OrderStatusDamaged},
		SLADays:      3,
		RushSLADays:  1,
	}
}

func TestVendorValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VendorProfile)
		ok     bool
	}{
		{"valid", func(v *VendorProfile) {}, true},
		{"missing id", func(v *VendorProfile) { v.ID = "" }, false},
		{"reliability above one", func(v *VendorProfile) { v.Reliability = 1.2 }, false},
		{"negative reliability", func(v *VendorProfile) { v.Reliability = -0.1 }, false},
		{"zero sla", func(v *VendorProfile) { v.SLADays = 0 }, false},
		{"rush exceeds standard", func(v *VendorProfile) { v.RushSLADays = 5 }, false},
		{"unknown category", func(v *VendorProfile) { v.Category = "warehouse" }, false},
		{"non-issue common issue", func(v *VendorProfile) {
			v.CommonIssues = []OrderStatus{OrderStatusShippingDelayed}
		}, false},
		{"no common issues is fine", func(v *VendorProfile) { v.CommonIssues = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor := validVendor()
			tt.mutate(&vendor)
			err := vendor.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewVendorCatalog(t *testing.T) {
	first := validVendor()
	second := validVendor()
	second.ID = "vendor_2"

	catalog, err := NewVendorCatalog([]VendorProfile{first, second})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	got, ok := catalog.Get("vendor_2")
	require.True(t, ok)
	assert.Equal(t, second.Name, got.Name)

	_, ok = catalog.Get("vendor_3")
	assert.False(t, ok)
}

func TestNewVendorCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewVendorCatalog([]VendorProfile{validVendor(), validVendor()})
	assert.ErrorContains(t, err, "duplicate vendor id")
}

func TestNewVendorCatalogRejectsEmpty(t *testing.T) {
	_, err := NewVendorCatalog(nil)
	assert.Error(t, err)
}

func TestLoadVendorCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.json")
	payload := `[
		{
			"id": "vendor_file",
			"name": "From File",
			"category": "gourmet",
			"reliability": 0.85,
			"common_issues": ["LOST"],
			"sla_days": 4,
			"rush_sla_days": 2
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	catalog, err := LoadVendorCatalog(path)
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Len())

	vendor, ok := catalog.Get("vendor_file")
	require.True(t, ok)
	assert.Equal(t, 0.85, vendor.Reliability)
	assert.Equal(t, []OrderStatus{OrderStatusLost}, vendor.CommonIssues)
}
