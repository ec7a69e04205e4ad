package simulator

import (
	"math"

	"github.com/calebmoran/giftsim/internal/models"
)

// VendorSelector draws vendors with probability proportional to a coarse
// 1-10 integer banding of their reliability (ceil(reliability*10)), so a
// 0.95 vendor is picked roughly twice as often as a 0.5 one without
// floating-point bias. The cumulative table is built once; each draw is a
// linear scan, which is plenty for catalogs of a few dozen vendors.
type VendorSelector struct {
	vendors    []models.VendorProfile
	cumulative []int
	total      int
	rng        Rand
}

func NewVendorSelector(catalog *models.VendorCatalog, rng Rand) *VendorSelector {
	vendors := catalog.Vendors()
	selector := &VendorSelector{
		vendors:    vendors,
		cumulative: make([]int, len(vendors)),
		rng:        rng,
	}
	running := 0
	for i, vendor := range vendors {
		weight := int(math.Ceil(vendor.Reliability * 10))
		if weight < 1 {
			weight = 1
		}
		running += weight
		selector.cumulative[i] = running
	}
	selector.total = running
	return selector
}

// Select returns the id of a weighted-random vendor.
func (vs *VendorSelector) Select() string {
	draw := vs.rng.Intn(vs.total)
	for i, bound := range vs.cumulative {
		if draw < bound {
			return vs.vendors[i].ID
		}
	}
	// Unreachable: draw < total by construction.
	return vs.vendors[len(vs.vendors)-1].ID
}
