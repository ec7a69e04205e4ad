package simulator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backfillConfig() *models.Config {
	return &models.Config{
		DailyOrderMin:     50,
		DailyOrderMax:     200,
		WeekdayMultiplier: 1.5,
		WeekendMultiplier: 0.6,
		RushProbability:   0.15,
		GiftCategories: []models.GiftCategory{
			{Name: "flowers", Weight: 0.6, MinValue: 2500, MaxValue: 12000},
			{Name: "keepsake", Weight: 0.4, MinValue: 1500, MaxValue: 8000},
		},
	}
}

func TestSynthesizeDailyVolumes(t *testing.T) {
	cfg := backfillConfig()
	catalog := testCatalog(t)
	synth := NewSynthesizer(cfg, catalog, rand.New(rand.NewSource(21)))

	endDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // a Monday
	orders, stats := synth.Synthesize(14, endDate)

	require.Equal(t, 14, stats.Days)
	require.Equal(t, len(orders), stats.OrdersWritten)
	require.Equal(t, stats.OrdersWritten, stats.Arrived+stats.Issues)

	perDay := make(map[string]int)
	for _, order := range orders {
		perDay[order.CreatedAt.Format("2006-01-02")] = perDay[order.CreatedAt.Format("2006-01-02")] + 1
	}
	require.Len(t, perDay, 14)

	for dayKey, count := range perDay {
		day, err := time.Parse("2006-01-02", dayKey)
		require.NoError(t, err)
		if isWeekend(day) {
			// base [50,200] x 0.6
			assert.GreaterOrEqual(t, count, 30, "weekend %s", dayKey)
			assert.LessOrEqual(t, count, 120, "weekend %s", dayKey)
		} else {
			// base [50,200] x 1.5
			assert.GreaterOrEqual(t, count, 75, "weekday %s", dayKey)
			assert.LessOrEqual(t, count, 300, "weekday %s", dayKey)
		}
	}
}

func TestSynthesizeFieldConsistency(t *testing.T) {
	cfg := backfillConfig()
	catalog := testCatalog(t)
	synth := NewSynthesizer(cfg, catalog, rand.New(rand.NewSource(42)))

	endDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	orders, _ := synth.Synthesize(7, endDate)
	require.NotEmpty(t, orders)

	for _, order := range orders {
		require.NoError(t, order.Validate())
		assert.True(t, order.Backfilled)
		assert.True(t, order.Status.IsTerminal(), "backfilled order %s left open as %s", order.ID, order.Status)

		_, known := catalog.Get(order.VendorID)
		assert.True(t, known, "order %s references vendor %s outside the catalog", order.ID, order.VendorID)

		if order.Status == models.OrderStatusArrived {
			require.NotNil(t, order.ActualDelivery)
			assert.False(t, order.ActualDelivery.Before(order.CreatedAt))
			assert.GreaterOrEqual(t, order.DeliveryDays, 0)
			assert.Equal(t, order.ActualDelivery.After(order.EstimatedDelivery), order.Delayed)
		} else {
			assert.True(t, order.Status.IsIssue())
			assert.Nil(t, order.ActualDelivery)
			assert.True(t, order.Delayed, "issue order %s must be flagged delayed", order.ID)
			assert.True(t, order.UpdatedAt.After(order.EstimatedDelivery))
		}
	}
}

func TestSynthesizeArrivalRateTracksReliability(t *testing.T) {
	cfg := backfillConfig()
	catalog := testCatalog(t, models.VendorProfile{
		ID: "vendor_solo", Name: "Solo", Category: models.VendorCategoryGourmet,
		Reliability: 0.8, CommonIssues: []models.OrderStatus{models.OrderStatusDamaged},
		SLADays: 4, RushSLADays: 2,
	})
	synth := NewSynthesizer(cfg, catalog, rand.New(rand.NewSource(17)))

	endDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	orders, stats := synth.Synthesize(30, endDate)
	require.NotEmpty(t, orders)

	// Success draw is reliability x 0.9 = 0.72.
	rate := float64(stats.Arrived) / float64(stats.OrdersWritten)
	assert.InDelta(t, 0.72, rate, 0.03)
}

func TestSynthesizeRushShortensEstimate(t *testing.T) {
	cfg := backfillConfig()
	cfg.RushProbability = 0.5
	catalog := testCatalog(t)
	synth := NewSynthesizer(cfg, catalog, rand.New(rand.NewSource(8)))

	endDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	orders, _ := synth.Synthesize(3, endDate)

	sawRush := false
	for _, order := range orders {
		vendor, ok := catalog.Get(order.VendorID)
		require.True(t, ok)

		days := vendor.SLADays
		if order.Rush {
			days = vendor.RushSLADays
			sawRush = true
		}
		assert.Equal(t, order.CreatedAt.AddDate(0, 0, days), order.EstimatedDelivery)
	}
	assert.True(t, sawRush, "half-rate rush probability produced no rush orders")
}
