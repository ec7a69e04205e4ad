package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/calebmoran/giftsim/internal/output"
	"github.com/calebmoran/giftsim/internal/repositories"
)

// ChangeConsumer is the change-notification stream the watch mode tails.
type ChangeConsumer interface {
	Consume(ctx context.Context, handle func(value []byte)) error
}

// Simulator wires the catalog, the probabilistic components and the data
// store into the three batch entry points: backfill, live step and
// aggregation. Each entry point runs to completion; scheduling and retry
// belong to the caller.
type Simulator struct {
	Config   *models.Config
	Catalog  *models.VendorCatalog
	Rng      *rand.Rand
	Orders   repositories.OrderRepository
	Reports  repositories.ReportRepository
	Notifier OutputDestination

	machine    *StateMachine
	selector   *VendorSelector
	aggregator *Aggregator
}

func NewSimulator(cfg *models.Config, catalog *models.VendorCatalog, orders repositories.OrderRepository, reports repositories.ReportRepository, notifier OutputDestination) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return &Simulator{
		Config:     cfg,
		Catalog:    catalog,
		Rng:        rng,
		Orders:     orders,
		Reports:    reports,
		Notifier:   notifier,
		machine:    NewStateMachine(catalog, rng),
		selector:   NewVendorSelector(catalog, rng),
		aggregator: NewAggregator(catalog),
	}
}

// RunBackfill synthesizes the configured historical population and batch
// writes it. Store failures abort and surface to the caller; previously
// written chunks stay put.
func (s *Simulator) RunBackfill(ctx context.Context) error {
	endDate := s.Config.BackfillEndDate
	if endDate.IsZero() {
		endDate = time.Now()
	}

	synth := NewSynthesizer(s.Config, s.Catalog, s.Rng)
	orders, stats := synth.Synthesize(s.Config.BackfillDays, endDate)

	written, err := s.Orders.BatchWrite(ctx, orders)
	if err != nil {
		return fmt.Errorf("backfill aborted after %d orders: %w", written, err)
	}
	log.Printf("Backfill complete: %d days, %d orders (%d arrived, %d issues)",
		stats.Days, stats.OrdersWritten, stats.Arrived, stats.Issues)

	if s.Config.OutputDestination != "" {
		exporter, err := output.NewParquetExporter(s.Config)
		if err != nil {
			return err
		}
		if err := exporter.ExportOrders(orders, "orders_backfill"); err != nil {
			return err
		}
	}
	return nil
}

// RunLive ticks the live driver until the context is cancelled. Store
// errors abort the tick and are logged; the next tick is a fresh
// invocation.
func (s *Simulator) RunLive(ctx context.Context) error {
	interval := time.Duration(s.Config.LiveTickSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Live driver started, tick every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("Live driver stopped")
			return ctx.Err()
		case <-ticker.C:
			result, err := s.Step(ctx, time.Now())
			if err != nil {
				log.Printf("Live step failed: %v", err)
				continue
			}
			if result.Created+result.Advanced+result.Skipped > 0 {
				log.Printf("Live step: created=%d advanced=%d skipped=%d",
					result.Created, result.Advanced, result.Skipped)
			}
		}
	}
}

// RunAggregation recomputes every vendor report and the dashboard summary
// from a fresh scan of the last two windows plus all open orders.
func (s *Simulator) RunAggregation(ctx context.Context, now time.Time) error {
	since := now.Add(-2 * reportWindow)
	orders, err := s.Orders.ScanSince(ctx, since)
	if err != nil {
		return fmt.Errorf("aggregation scan failed: %w", err)
	}

	reports, summary := s.aggregator.Aggregate(orders, now)

	if err := s.Reports.UpsertVendorReports(ctx, reports); err != nil {
		return fmt.Errorf("failed to write vendor reports: %w", err)
	}
	if err := s.Reports.UpsertDashboardSummary(ctx, summary); err != nil {
		return fmt.Errorf("failed to write dashboard summary: %w", err)
	}

	log.Printf("Aggregation for %s: %d vendors, reliability %.1f (prev %.1f, %s), %d active / %d delayed, %d at risk",
		summary.ReportDate, len(reports), summary.CurrentReliability, summary.PreviousReliability,
		summary.Trend.Direction, summary.ActiveOrders, summary.DelayedOrders, summary.AtRiskVendors)

	if s.Config.OutputDestination != "" {
		exporter, err := output.NewParquetExporter(s.Config)
		if err != nil {
			return err
		}
		if err := exporter.ExportVendorReports(reports, "vendor_reports"); err != nil {
			return err
		}
	}
	return nil
}

// WatchAndAggregate tails the change-notification stream and reruns the
// aggregation shortly after each burst of changes. Bursts are coalesced
// to one run per tick; aggregation is idempotent so over-triggering is
// merely wasteful, never wrong.
func (s *Simulator) WatchAndAggregate(ctx context.Context, consumer ChangeConsumer) error {
	trigger := make(chan struct{}, 1)
	go func() {
		err := consumer.Consume(ctx, func(_ []byte) {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("Change stream terminated: %v", err)
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			pending = true
		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.RunAggregation(ctx, time.Now()); err != nil {
				// Surface-and-continue: retry policy belongs to the
				// stream, which will trigger again on the next change.
				log.Printf("Aggregation run failed: %v", err)
			}
		}
	}
}
