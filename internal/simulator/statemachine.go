package simulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
)

// ErrUnknownVendor marks an order that references a vendor missing from
// the catalog. Fatal for that order only; batch callers log and continue.
var ErrUnknownVendor = errors.New("unknown vendor")

// Transition policy constants. Tunable; the shipped values keep a healthy
// vendor's orders arriving within a handful of cycles.
const (
	probArriveOnTime = 0.35 // complete from SHIPPING_ON_TIME this cycle
	probLost         = 0.04 // from SHIPPING_DELAYED
	probIssue        = 0.08 // from SHIPPING_DELAYED, after the lost band
	probArriveLate   = 0.35 // from SHIPPING_DELAYED, after the issue band
	commonIssueBias  = 0.70 // chance the issue draw uses the vendor's common set
)

// statusGraph documents the reachable edges of the lifecycle. The
// probabilistic policy in Advance is the source of truth; this map exists
// for reference and is only asserted against in tests. Self-loops
// ("no change this cycle") are implicit.
var statusGraph = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPlaced: {
		models.OrderStatusShippingOnTime,
		models.OrderStatusShippingDelayed,
	},
	models.OrderStatusShippingOnTime: {
		models.OrderStatusShippingDelayed,
		models.OrderStatusArrived,
	},
	models.OrderStatusShippingDelayed: {
		models.OrderStatusArrived,
		models.OrderStatusLost,
		models.OrderStatusDamaged,
		models.OrderStatusUndeliverable,
		models.OrderStatusReturnToSender,
	},
}

// StateMachine owns the order status lifecycle. It is stateless apart
// from the injected catalog and PRNG, so a single instance is shared by
// the live driver and the tests.
type StateMachine struct {
	catalog *models.VendorCatalog
	rng     Rand
}

func NewStateMachine(catalog *models.VendorCatalog, rng Rand) *StateMachine {
	return &StateMachine{catalog: catalog, rng: rng}
}

// Advance decides the order's next status and applies the transition side
// effects: updated timestamp, delayed-flag recompute, and on arrival the
// actual-delivery stamp and delivery-days. Terminal orders are returned
// unchanged. The caller compares the previous status to decide whether a
// change notification is due.
func (m *StateMachine) Advance(order *models.Order, now time.Time) (models.OrderStatus, error) {
	vendor, ok := m.catalog.Get(order.VendorID)
	if !ok {
		return order.Status, fmt.Errorf("%w: %s (order %s)", ErrUnknownVendor, order.VendorID, order.ID)
	}
	if order.Status.IsTerminal() {
		return order.Status, nil
	}

	overdue := order.Overdue(now)
	next := m.nextStatus(order.Status, vendor, overdue)

	order.Status = next
	order.UpdatedAt = now
	if next == models.OrderStatusArrived {
		order.MarkArrived(now)
	} else {
		order.RecomputeDerived()
	}
	return next, nil
}

func (m *StateMachine) nextStatus(current models.OrderStatus, vendor *models.VendorProfile, overdue bool) models.OrderStatus {
	switch current {
	case models.OrderStatusPlaced:
		if overdue || m.rng.Float64() > vendor.Reliability {
			return models.OrderStatusShippingDelayed
		}
		return models.OrderStatusShippingOnTime

	case models.OrderStatusShippingOnTime:
		if overdue || m.rng.Float64() > vendor.Reliability {
			return models.OrderStatusShippingDelayed
		}
		if m.rng.Float64() < probArriveOnTime {
			return models.OrderStatusArrived
		}
		return models.OrderStatusShippingOnTime

	case models.OrderStatusShippingDelayed:
		roll := m.rng.Float64()
		switch {
		case roll < probLost:
			return models.OrderStatusLost
		case roll < probLost+probIssue:
			return pickIssueStatus(vendor, m.rng)
		case roll < probLost+probIssue+probArriveLate:
			return models.OrderStatusArrived
		default:
			return models.OrderStatusShippingDelayed
		}
	}
	return current
}

// pickIssueStatus models vendor-specific failure modes: most of the time
// the draw comes from the vendor's declared common-issue set, the rest is
// uniform over every terminal issue status. Shared with the backfill
// synthesizer so historical and live populations fail the same way.
func pickIssueStatus(vendor *models.VendorProfile, rng Rand) models.OrderStatus {
	if len(vendor.CommonIssues) > 0 && rng.Float64() < commonIssueBias {
		return vendor.CommonIssues[rng.Intn(len(vendor.CommonIssues))]
	}
	return models.IssueStatuses[rng.Intn(len(models.IssueStatuses))]
}
