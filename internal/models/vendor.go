package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// VendorProfile describes a third-party gift vendor. Profiles are loaded
// once at startup and never mutated afterwards.
type VendorProfile struct {
	ID           string        `json:"id" mapstructure:"id"`
	Name         string        `json:"name" mapstructure:"name"`
	Category     string        `json:"category" mapstructure:"category"`
	Reliability  float64       `json:"reliability" mapstructure:"reliability"`
	CommonIssues []OrderStatus `json:"common_issues" mapstructure:"common_issues"`
	SLADays      int           `json:"sla_days" mapstructure:"sla_days"`
	RushSLADays  int           `json:"rush_sla_days" mapstructure:"rush_sla_days"`
}

func (v *VendorProfile) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vendor %q: missing id", v.Name)
	}
	if v.Reliability < 0 || v.Reliability > 1 {
		return fmt.Errorf("vendor %s: reliability %.2f out of range [0,1]", v.ID, v.Reliability)
	}
	if v.SLADays <= 0 || v.RushSLADays <= 0 {
		return fmt.Errorf("vendor %s: SLA days must be positive", v.ID)
	}
	if v.RushSLADays > v.SLADays {
		return fmt.Errorf("vendor %s: rush SLA (%d) exceeds standard SLA (%d)", v.ID, v.RushSLADays, v.SLADays)
	}
	if !validCategory(v.Category) {
		return fmt.Errorf("vendor %s: unknown category %q", v.ID, v.Category)
	}
	for _, issue := range v.CommonIssues {
		if !issue.IsIssue() {
			return fmt.Errorf("vendor %s: %s is not a terminal issue status", v.ID, issue)
		}
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range VendorCategories {
		if c == category {
			return true
		}
	}
	return false
}

// VendorCatalog is the static, ordered set of vendors shared by the
// selector, the state machine and both order producers. Read-only after
// construction, so safe to share across concurrent invocations.
type VendorCatalog struct {
	vendors []VendorProfile
	byID    map[string]*VendorProfile
}

func NewVendorCatalog(vendors []VendorProfile) (*VendorCatalog, error) {
	if len(vendors) == 0 {
		return nil, fmt.Errorf("vendor catalog is empty")
	}
	catalog := &VendorCatalog{
		vendors: make([]VendorProfile, len(vendors)),
		byID:    make(map[string]*VendorProfile, len(vendors)),
	}
	copy(catalog.vendors, vendors)
	for i := range catalog.vendors {
		v := &catalog.vendors[i]
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := catalog.byID[v.ID]; dup {
			return nil, fmt.Errorf("duplicate vendor id %s", v.ID)
		}
		catalog.byID[v.ID] = v
	}
	return catalog, nil
}

// Vendors returns the catalog in its load order.
func (c *VendorCatalog) Vendors() []VendorProfile {
	return c.vendors
}

func (c *VendorCatalog) Get(id string) (*VendorProfile, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *VendorCatalog) Len() int {
	return len(c.vendors)
}

// LoadVendorCatalog reads a JSON array of vendor profiles from disk.
func LoadVendorCatalog(filePath string) (*VendorCatalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading vendor catalog: %w", err)
	}
	var vendors []VendorProfile
	if err := json.Unmarshal(data, &vendors); err != nil {
		return nil, fmt.Errorf("error parsing vendor catalog: %w", err)
	}
	return NewVendorCatalog(vendors)
}
