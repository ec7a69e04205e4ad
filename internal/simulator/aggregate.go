package simulator

import (
	"math"
	"sort"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
)

const (
	reportWindow    = 7 * 24 * time.Hour
	trendStableBand = 0.05
)

// Aggregator recomputes rolling 7-day vendor reports and the system-wide
// dashboard summary from scratch on every run. Recomputation over full
// windows keeps the operation idempotent under at-least-once triggering.
type Aggregator struct {
	catalog *models.VendorCatalog
}

func NewAggregator(catalog *models.VendorCatalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Aggregate partitions the order population into the current window
// [now-7d, now] and the previous window [now-14d, now-7d) per vendor,
// then derives deltas and trend direction. Every catalog vendor gets a
// report, all-zero when it had no orders in either window.
func (a *Aggregator) Aggregate(orders []models.Order, now time.Time) ([]models.VendorReport, models.DashboardSummary) {
	currentStart := now.Add(-reportWindow)
	previousStart := now.Add(-2 * reportWindow)
	reportDate := now.Format("2006-01-02")

	byVendor := make(map[string][]models.Order, a.catalog.Len())
	for _, order := range orders {
		byVendor[order.VendorID] = append(byVendor[order.VendorID], order)
	}

	reports := make([]models.VendorReport, 0, a.catalog.Len())
	for _, vendor := range a.catalog.Vendors() {
		var current, previous []models.Order
		for _, order := range byVendor[vendor.ID] {
			switch {
			case !order.CreatedAt.Before(currentStart) && !order.CreatedAt.After(now):
				current = append(current, order)
			case !order.CreatedAt.Before(previousStart) && order.CreatedAt.Before(currentStart):
				previous = append(previous, order)
			}
		}

		report := models.VendorReport{
			VendorID:    vendor.ID,
			VendorName:  vendor.Name,
			ReportDate:  reportDate,
			Current:     computeWindowMetrics(current),
			Previous:    computeWindowMetrics(previous),
			GeneratedAt: now,
		}
		report.Trend = trendBetween(report.Current, report.Previous)
		reports = append(reports, report)
	}

	return reports, a.summarize(reports, orders, reportDate, now)
}

func computeWindowMetrics(orders []models.Order) models.WindowMetrics {
	metrics := models.NewWindowMetrics()
	metrics.TotalOrders = len(orders)

	deliveredDays := 0
	deliveredCount := 0
	for _, order := range orders {
		metrics.StatusCounts[order.Status]++
		if order.Status.IsIssue() {
			metrics.IssueCount++
		}
		if order.ActualDelivery != nil {
			deliveredDays += order.DeliveryDays
			deliveredCount++
			if !order.ActualDelivery.After(order.EstimatedDelivery) {
				metrics.OnTimeDeliveries++
			}
		}
	}

	arrived := metrics.StatusCounts[models.OrderStatusArrived]
	if arrived > 0 {
		metrics.OnTimePercentage = int(math.Round(float64(metrics.OnTimeDeliveries) / float64(arrived) * 100))
	}
	if deliveredCount > 0 {
		metrics.AvgDeliveryDays = float64(deliveredDays) / float64(deliveredCount)
	}

	completed := arrived + metrics.IssueCount
	if completed > 0 {
		metrics.ReliabilityScore = int(math.Round(float64(arrived) / float64(completed) * 100))
	}
	return metrics
}

func trendBetween(current, previous models.WindowMetrics) models.TrendBlock {
	return models.TrendBlock{
		ScoreDelta:  float64(current.ReliabilityScore - previous.ReliabilityScore),
		VolumeDelta: current.TotalOrders - previous.TotalOrders,
		OnTimeDelta: current.OnTimePercentage - previous.OnTimePercentage,
		IssueDelta:  current.IssueCount - previous.IssueCount,
		Direction:   trendDirection(float64(current.ReliabilityScore), float64(previous.ReliabilityScore)),
	}
}

// trendDirection classifies a relative change: stable inside the 5% band
// (or when both sides are zero), otherwise up or down by sign.
func trendDirection(current, previous float64) string {
	if previous == 0 {
		if current == 0 {
			return models.TrendStable
		}
		if current > 0 {
			return models.TrendUp
		}
		return models.TrendDown
	}
	if math.Abs(current-previous)/math.Abs(previous) < trendStableBand {
		return models.TrendStable
	}
	if current > previous {
		return models.TrendUp
	}
	return models.TrendDown
}

// summarize rolls the per-vendor reports up into the dashboard record.
// System reliability is the unweighted mean of per-vendor scores over
// vendors with at least one order in the window; order volume does not
// weight the mean.
func (a *Aggregator) summarize(reports []models.VendorReport, orders []models.Order, reportDate string, now time.Time) models.DashboardSummary {
	summary := models.DashboardSummary{
		ReportDate:             reportDate,
		TopVendors:             []string{},
		UnderperformingVendors: []string{},
		GeneratedAt:            now,
	}

	var currentSum, previousSum float64
	var currentVendors, previousVendors int
	var currentVolume, previousVolume int
	var currentOnTimeSum, previousOnTimeSum int
	var currentIssues, previousIssues int

	type scored struct {
		id    string
		score int
	}
	var ranked []scored

	for _, report := range reports {
		currentVolume += report.Current.TotalOrders
		previousVolume += report.Previous.TotalOrders
		currentIssues += report.Current.IssueCount
		previousIssues += report.Previous.IssueCount

		if report.Current.TotalOrders > 0 {
			currentSum += float64(report.Current.ReliabilityScore)
			currentOnTimeSum += report.Current.OnTimePercentage
			currentVendors++
			ranked = append(ranked, scored{report.VendorID, report.Current.ReliabilityScore})
			if report.Current.ReliabilityScore < models.AtRiskScoreThreshold {
				summary.AtRiskVendors++
			}
			if report.Current.ReliabilityScore < models.UnderperformScoreThreshold {
				summary.UnderperformingVendors = append(summary.UnderperformingVendors, report.VendorID)
			}
		}
		if report.Previous.TotalOrders > 0 {
			previousSum += float64(report.Previous.ReliabilityScore)
			previousOnTimeSum += report.Previous.OnTimePercentage
			previousVendors++
		}
	}

	if currentVendors > 0 {
		summary.CurrentReliability = currentSum / float64(currentVendors)
	}
	if previousVendors > 0 {
		summary.PreviousReliability = previousSum / float64(previousVendors)
	}

	for _, order := range orders {
		if order.Status.IsTerminal() {
			continue
		}
		summary.ActiveOrders++
		if order.Delayed || order.Status == models.OrderStatusShippingDelayed {
			summary.DelayedOrders++
		}
	}

	// Rank preserves catalog order on ties via stable sort.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	for i := 0; i < len(ranked) && i < models.TopVendorCount; i++ {
		summary.TopVendors = append(summary.TopVendors, ranked[i].id)
	}

	currentOnTime, previousOnTime := 0, 0
	if currentVendors > 0 {
		currentOnTime = currentOnTimeSum / currentVendors
	}
	if previousVendors > 0 {
		previousOnTime = previousOnTimeSum / previousVendors
	}
	summary.Trend = models.TrendBlock{
		ScoreDelta:  summary.CurrentReliability - summary.PreviousReliability,
		VolumeDelta: currentVolume - previousVolume,
		OnTimeDelta: currentOnTime - previousOnTime,
		IssueDelta:  currentIssues - previousIssues,
		Direction:   trendDirection(summary.CurrentReliability, summary.PreviousReliability),
	}
	return summary
}
