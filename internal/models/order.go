package models

import (
	"fmt"
	"time"
)

type Order struct {
	ID                string      `json:"id"`
	VendorID          string      `json:"vendor_id"`
	Status            OrderStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	ActualDelivery    *time.Time  `json:"actual_delivery,omitempty"`
	GiftValue         int         `json:"gift_value"` // minor currency units
	GiftCategory      string      `json:"gift_category"`
	Rush              bool        `json:"rush"`
	Delayed           bool        `json:"delayed"`
	DeliveryDays      int         `json:"delivery_days"`
	Backfilled        bool        `json:"backfilled"`
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: missing id")
	}
	if o.VendorID == "" {
		return fmt.Errorf("order %s: missing vendor id", o.ID)
	}
	if o.GiftValue <= 0 {
		return fmt.Errorf("order %s: gift value must be positive, got %d", o.ID, o.GiftValue)
	}
	if o.EstimatedDelivery.Before(o.CreatedAt) {
		return fmt.Errorf("order %s: estimated delivery precedes creation", o.ID)
	}
	return nil
}

// RecomputeDerived refreshes the delayed flag and delivery-days counter
// from the order's timestamps. Called on every status mutation so the
// derived fields are never stale.
func (o *Order) RecomputeDerived() {
	if o.ActualDelivery != nil {
		o.Delayed = o.ActualDelivery.After(o.EstimatedDelivery)
		o.DeliveryDays = int(o.ActualDelivery.Sub(o.CreatedAt).Hours() / 24)
		return
	}
	o.Delayed = o.UpdatedAt.After(o.EstimatedDelivery)
}

// MarkArrived stamps the actual delivery time and recomputes the derived
// fields. The caller owns the status change itself.
func (o *Order) MarkArrived(at time.Time) {
	delivered := at
	o.ActualDelivery = &delivered
	o.UpdatedAt = at
	o.RecomputeDerived()
}

// Overdue reports whether the order has blown past its delivery estimate
// without reaching a terminal status.
func (o *Order) Overdue(now time.Time) bool {
	return !o.Status.IsTerminal() && now.After(o.EstimatedDelivery)
}
