package models

import "time"

// WindowMetrics summarises one 7-day slice of a vendor's orders.
type WindowMetrics struct {
	StatusCounts     map[OrderStatus]int `json:"status_counts"`
	TotalOrders      int                 `json:"total_orders"`
	OnTimeDeliveries int                 `json:"on_time_deliveries"`
	OnTimePercentage int                 `json:"on_time_percentage"`
	IssueCount       int                 `json:"issue_count"`
	AvgDeliveryDays  float64             `json:"avg_delivery_days"`
	ReliabilityScore int                 `json:"reliability_score"` // [0,100]
}

// NewWindowMetrics returns zeroed metrics with every status represented
// in the count map, so sums over the map always equal TotalOrders.
func NewWindowMetrics() WindowMetrics {
	counts := make(map[OrderStatus]int, len(AllOrderStatuses))
	for _, status := range AllOrderStatuses {
		counts[status] = 0
	}
	return WindowMetrics{StatusCounts: counts}
}

type TrendBlock struct {
	ScoreDelta  float64 `json:"score_delta"`
	VolumeDelta int     `json:"volume_delta"`
	OnTimeDelta int     `json:"on_time_delta"`
	IssueDelta  int     `json:"issue_delta"`
	Direction   string  `json:"direction"` // up, down, stable
}

// VendorReport is regenerated wholesale on every aggregation run and
// upserted keyed by (vendor id, report date).
type VendorReport struct {
	VendorID    string        `json:"vendor_id"`
	VendorName  string        `json:"vendor_name"`
	ReportDate  string        `json:"report_date"` // YYYY-MM-DD
	Current     WindowMetrics `json:"current"`
	Previous    WindowMetrics `json:"previous"`
	Trend       TrendBlock    `json:"trend"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// DashboardSummary is the singleton-per-date rollup across all vendors,
// derived entirely from the VendorReports of the same run.
type DashboardSummary struct {
	ReportDate             string     `json:"report_date"`
	CurrentReliability     float64    `json:"current_reliability"`
	PreviousReliability    float64    `json:"previous_reliability"`
	ActiveOrders           int        `json:"active_orders"`
	DelayedOrders          int        `json:"delayed_orders"`
	AtRiskVendors          int        `json:"at_risk_vendors"`
	Trend                  TrendBlock `json:"trend"`
	TopVendors             []string   `json:"top_vendors"`
	UnderperformingVendors []string   `json:"underperforming_vendors"`
	GeneratedAt            time.Time  `json:"generated_at"`
}
