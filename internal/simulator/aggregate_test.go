package simulator

import (
	"testing"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aggNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// aggOrder builds a terminal order created the given number of days before
// aggNow. Arrived orders deliver onTime or one day past the estimate.
func aggOrder(vendorID string, status models.OrderStatus, daysAgo int, onTime bool) models.Order {
	createdAt := aggNow.AddDate(0, 0, -daysAgo)
	estimate := createdAt.AddDate(0, 0, 3)
	order := models.Order{
		ID:                vendorID + "-" + createdAt.Format("20060102-150405"),
		VendorID:          vendorID,
		Status:            status,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
		EstimatedDelivery: estimate,
		GiftValue:         5000,
		GiftCategory:      "flowers",
	}
	if status == models.OrderStatusArrived {
		arrival := estimate
		if !onTime {
			arrival = estimate.AddDate(0, 0, 1)
		}
		order.MarkArrived(arrival)
	} else if status.IsIssue() {
		order.UpdatedAt = estimate.Add(12 * time.Hour)
		order.RecomputeDerived()
	}
	return order
}

func repeatOrders(vendorID string, status models.OrderStatus, daysAgo, n int, onTime bool) []models.Order {
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, aggOrder(vendorID, status, daysAgo, onTime))
	}
	return orders
}

func TestAggregateReliabilityScore(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	var orders []models.Order
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 2, 90, true)...)
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusLost, 2, 5, false)...)
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusDamaged, 2, 5, false)...)

	reports, _ := agg.Aggregate(orders, aggNow)
	report := findReport(t, reports, "vendor_reliable")

	assert.Equal(t, 100, report.Current.TotalOrders)
	assert.Equal(t, 90, report.Current.ReliabilityScore)
	assert.Equal(t, 10, report.Current.IssueCount)
	assert.Equal(t, 90, report.Current.StatusCounts[models.OrderStatusArrived])

	sum := 0
	for _, count := range report.Current.StatusCounts {
		sum += count
	}
	assert.Equal(t, report.Current.TotalOrders, sum, "status counts must sum to the window total")
}

func TestAggregateOnTimePercentage(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	// 80 on time out of 90 arrived: 89% against the arrived denominator.
	var orders []models.Order
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 3, 80, true)...)
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 3, 10, false)...)
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusUndeliverable, 3, 10, false)...)

	reports, _ := agg.Aggregate(orders, aggNow)
	report := findReport(t, reports, "vendor_reliable")

	assert.Equal(t, 89, report.Current.OnTimePercentage)
	assert.Equal(t, 80, report.Current.OnTimeDeliveries)
}

func TestAggregateWindowPartition(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	var orders []models.Order
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 2, 10, true)...)  // current
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 10, 20, true)...) // previous
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 20, 30, true)...) // outside both

	reports, _ := agg.Aggregate(orders, aggNow)
	report := findReport(t, reports, "vendor_reliable")

	assert.Equal(t, 10, report.Current.TotalOrders)
	assert.Equal(t, 20, report.Previous.TotalOrders)
	assert.Equal(t, -10, report.Trend.VolumeDelta)
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     string
	}{
		{"clear improvement", 90, 80, models.TrendUp},
		{"clear regression", 70, 80, models.TrendDown},
		{"inside stable band", 82, 80, models.TrendStable},
		{"exact band edge tips up", 84, 80, models.TrendUp},
		{"both windows empty", 0, 0, models.TrendStable},
		{"first window of data", 75, 0, models.TrendUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trendDirection(tt.current, tt.previous))
		})
	}
}

func TestAggregateEmptyWindowsProduceZeroReports(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	reports, summary := agg.Aggregate(nil, aggNow)
	require.Len(t, reports, catalog.Len())

	for _, report := range reports {
		assert.Equal(t, 0, report.Current.TotalOrders)
		assert.Equal(t, 0, report.Current.ReliabilityScore)
		assert.Equal(t, models.TrendStable, report.Trend.Direction)
	}
	assert.Zero(t, summary.CurrentReliability)
	assert.Zero(t, summary.ActiveOrders)
	assert.Empty(t, summary.TopVendors)
	assert.Empty(t, summary.UnderperformingVendors)
}

func TestAggregateDashboardUnweightedMean(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	// vendor_reliable scores 100 on heavy volume, vendor_flaky 50 on two
	// orders. The dashboard averages scores, not orders.
	var orders []models.Order
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 2, 200, true)...)
	orders = append(orders, aggOrder("vendor_flaky", models.OrderStatusArrived, 2, true))
	orders = append(orders, aggOrder("vendor_flaky", models.OrderStatusLost, 2, false))

	_, summary := agg.Aggregate(orders, aggNow)

	assert.InDelta(t, 75.0, summary.CurrentReliability, 0.001)
	assert.Equal(t, 1, summary.AtRiskVendors)
	assert.Equal(t, []string{"vendor_flaky"}, summary.UnderperformingVendors)
	assert.Equal(t, []string{"vendor_reliable", "vendor_flaky"}, summary.TopVendors)
}

func TestAggregateActiveAndDelayedCounts(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	open := aggOrder("vendor_reliable", models.OrderStatusShippingOnTime, 1, false)
	stuck := aggOrder("vendor_reliable", models.OrderStatusShippingDelayed, 6, false)
	done := aggOrder("vendor_flaky", models.OrderStatusArrived, 2, true)

	_, summary := agg.Aggregate([]models.Order{open, stuck, done}, aggNow)

	assert.Equal(t, 2, summary.ActiveOrders)
	assert.Equal(t, 1, summary.DelayedOrders)
}

func TestAggregateScoreBounds(t *testing.T) {
	catalog := testCatalog(t)
	agg := NewAggregator(catalog)

	var orders []models.Order
	orders = append(orders, repeatOrders("vendor_flaky", models.OrderStatusLost, 2, 10, false)...)
	orders = append(orders, repeatOrders("vendor_reliable", models.OrderStatusArrived, 2, 10, true)...)

	reports, _ := agg.Aggregate(orders, aggNow)
	for _, report := range reports {
		assert.GreaterOrEqual(t, report.Current.ReliabilityScore, 0)
		assert.LessOrEqual(t, report.Current.ReliabilityScore, 100)
	}
	assert.Equal(t, 0, findReport(t, reports, "vendor_flaky").Current.ReliabilityScore)
	assert.Equal(t, 100, findReport(t, reports, "vendor_reliable").Current.ReliabilityScore)
}

func findReport(t *testing.T, reports []models.VendorReport, vendorID string) models.VendorReport {
	t.Helper()
	for _, report := range reports {
		if report.VendorID == vendorID {
			return report
		}
	}
	t.Fatalf("no report for %s", vendorID)
	return models.VendorReport{}
}
