package simulator

import (
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/schollz/progressbar/v3"
)

// backfillArrivalFactor scales vendor reliability into the single
// success-vs-issue draw used when resolving historical orders directly to
// a terminal status.
const backfillArrivalFactor = 0.9

// Synthesizer materializes a historical order population over a fixed
// horizon. Unlike the live driver it never steps the state machine
// cycle-by-cycle: every synthesized order is resolved straight to a
// terminal status, which keeps the work at O(days x orders-per-day) with
// no intermediate-state bookkeeping.
type Synthesizer struct {
	cfg      *models.Config
	catalog  *models.VendorCatalog
	selector *VendorSelector
	rng      Rand
}

func NewSynthesizer(cfg *models.Config, catalog *models.VendorCatalog, rng Rand) *Synthesizer {
	return &Synthesizer{
		cfg:      cfg,
		catalog:  catalog,
		selector: NewVendorSelector(catalog, rng),
		rng:      rng,
	}
}

// Synthesize generates orders for each of the `days` days preceding
// endDate. Output ordering is not significant; per-order field
// consistency (delayed flag, delivery days) is.
func (b *Synthesizer) Synthesize(days int, endDate time.Time) ([]models.Order, BackfillStats) {
	stats := BackfillStats{Days: days}
	var orders []models.Order

	bar := progressbar.Default(int64(days), "backfilling")
	for d := days; d >= 1; d-- {
		day := endDate.AddDate(0, 0, -d)
		count := dailyOrderCount(b.cfg, day, b.rng)
		for i := 0; i < count; i++ {
			order := b.synthesizeOrder(day)
			if order.Status == models.OrderStatusArrived {
				stats.Arrived++
			} else {
				stats.Issues++
			}
			orders = append(orders, order)
		}
		_ = bar.Add(1)
	}
	stats.OrdersWritten = len(orders)
	return orders, stats
}

func (b *Synthesizer) synthesizeOrder(day time.Time) models.Order {
	vendorID := b.selector.Select()
	vendor, _ := b.catalog.Get(vendorID) // selector only draws catalog vendors

	category := pickGiftCategory(b.cfg.GiftCategories, b.rng)
	rush := b.rng.Float64() < b.cfg.RushProbability
	createdAt := randomTimeWithin(day, b.rng)
	estimate := estimatedDelivery(vendor, createdAt, rush)

	order := models.Order{
		ID:                generateID(),
		VendorID:          vendorID,
		Status:            models.OrderStatusPlaced,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
		EstimatedDelivery: estimate,
		GiftValue:         giftValueFor(category, b.rng),
		GiftCategory:      category.Name,
		Rush:              rush,
		Backfilled:        true,
	}

	// Same reliability-weighted success-vs-issue decision as the live
	// state machine, collapsed into a single draw.
	if b.rng.Float64() < vendor.Reliability*backfillArrivalFactor {
		order.Status = models.OrderStatusArrived
		order.MarkArrived(b.jitterArrival(createdAt, estimate))
	} else {
		order.Status = pickIssueStatus(vendor, b.rng)
		order.UpdatedAt = b.issueOccurrence(estimate)
		order.RecomputeDerived()
	}
	return order
}

// jitterArrival spreads actual delivery within +-1 day of the estimate,
// never before the order was created.
func (b *Synthesizer) jitterArrival(createdAt, estimate time.Time) time.Time {
	offset := time.Duration((b.rng.Float64()*2 - 1) * 24 * float64(time.Hour))
	arrival := estimate.Add(offset)
	if arrival.Before(createdAt) {
		arrival = createdAt.Add(time.Hour)
	}
	return arrival
}

// issueOccurrence places the failure strictly after the estimate, so
// issue orders always carry the delayed flag.
func (b *Synthesizer) issueOccurrence(estimate time.Time) time.Time {
	return estimate.Add(time.Duration(1+b.rng.Intn(72)) * time.Hour)
}
