package simulator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/calebmoran/giftsim/internal/repositories"
)

// Step is one live-driver invocation: it either creates a single new
// order or advances a single open one, decided by a population-size
// heuristic. Run-to-completion; no internal scheduling.
func (s *Simulator) Step(ctx context.Context, now time.Time) (StepResult, error) {
	var result StepResult

	open, err := s.openOrders(ctx)
	if err != nil {
		return result, fmt.Errorf("error loading open orders: %w", err)
	}

	// An empty population always creates, whatever the configured floor
	// and probability say.
	if len(open) == 0 || len(open) < s.Config.MinActiveOrders || s.Rng.Float64() < s.Config.NewOrderProbability {
		order := s.newOrder(now)
		if err := s.Orders.CreateIfAbsent(ctx, &order); err != nil {
			if errors.Is(err, repositories.ErrOrderExists) {
				// Replayed invocation; the earlier write already landed.
				log.Printf("Order %s already exists, skipping create", order.ID)
				result.Skipped++
				return result, nil
			}
			return result, err
		}
		result.Created++
		s.notifyStatusChange(&order, "", now)
		return result, nil
	}

	order := open[s.Rng.Intn(len(open))]
	from := order.Status
	if _, err := s.machine.Advance(&order, now); err != nil {
		if errors.Is(err, ErrUnknownVendor) {
			// Fatal for this order only; the batch carries on.
			log.Printf("Skipping order %s: %v", order.ID, err)
			result.Skipped++
			return result, nil
		}
		return result, err
	}
	if err := s.Orders.UpdateStatus(ctx, &order); err != nil {
		return result, err
	}
	result.Advanced++
	if order.Status != from {
		s.notifyStatusChange(&order, from, now)
	}
	return result, nil
}

// newOrder creates a fresh PLACED order for a weighted-random vendor.
func (s *Simulator) newOrder(now time.Time) models.Order {
	vendorID := s.selector.Select()
	vendor, _ := s.Catalog.Get(vendorID)

	category := pickGiftCategory(s.Config.GiftCategories, s.Rng)
	rush := s.Rng.Float64() < s.Config.RushProbability

	return models.Order{
		ID:                generateID(),
		VendorID:          vendorID,
		Status:            models.OrderStatusPlaced,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: estimatedDelivery(vendor, now, rush),
		GiftValue:         giftValueFor(category, s.Rng),
		GiftCategory:      category.Name,
		Rush:              rush,
	}
}

func (s *Simulator) openOrders(ctx context.Context) ([]models.Order, error) {
	var open []models.Order
	for _, status := range []models.OrderStatus{
		models.OrderStatusPlaced,
		models.OrderStatusShippingOnTime,
		models.OrderStatusShippingDelayed,
	} {
		orders, err := s.Orders.GetByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		open = append(open, orders...)
	}
	return open, nil
}

// notifyStatusChange emits a change notification. A failed emit is logged
// and dropped; aggregation recomputes full windows, so a lost trigger
// only delays the next report.
func (s *Simulator) notifyStatusChange(order *models.Order, from models.OrderStatus, at time.Time) {
	if s.Notifier == nil {
		return
	}
	msg, err := serializeStatusChange(order, from, at)
	if err != nil {
		log.Printf("Error serializing status change for order %s: %v", order.ID, err)
		return
	}
	if err := s.Notifier.WriteMessage(s.Config.StatusTopic, msg); err != nil {
		log.Printf("Failed to publish status change for order %s: %v", order.ID, err)
	}
}
