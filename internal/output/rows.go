package output

import "github.com/calebmoran/giftsim/internal/models"

// OrderRow is the flattened, parquet-tagged export shape of an order.
type OrderRow struct {
	ID                string `parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	VendorID          string `parquet:"name=vendorId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status            string `parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	CreatedAt         int64  `parquet:"name=createdAt,type=INT64"`
	UpdatedAt         int64  `parquet:"name=updatedAt,type=INT64"`
	EstimatedDelivery int64  `parquet:"name=estimatedDelivery,type=INT64"`
	ActualDelivery    int64  `parquet:"name=actualDelivery,type=INT64"`
	GiftValue         int32  `parquet:"name=giftValue,type=INT32"`
	GiftCategory      string `parquet:"name=giftCategory,type=BYTE_ARRAY,convertedtype=UTF8"`
	Rush              bool   `parquet:"name=rush,type=BOOLEAN"`
	Delayed           bool   `parquet:"name=delayed,type=BOOLEAN"`
	DeliveryDays      int32  `parquet:"name=deliveryDays,type=INT32"`
	Backfilled        bool   `parquet:"name=backfilled,type=BOOLEAN"`
}

// VendorReportRow is the parquet-tagged export shape of a vendor report.
type VendorReportRow struct {
	VendorID         string  `parquet:"name=vendorId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ReportDate       string  `parquet:"name=reportDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	TotalOrders      int32   `parquet:"name=totalOrders,type=INT32"`
	OnTimePercentage int32   `parquet:"name=onTimePercentage,type=INT32"`
	IssueCount       int32   `parquet:"name=issueCount,type=INT32"`
	AvgDeliveryDays  float64 `parquet:"name=avgDeliveryDays,type=DOUBLE"`
	ReliabilityScore int32   `parquet:"name=reliabilityScore,type=INT32"`
	ScoreDelta       float64 `parquet:"name=scoreDelta,type=DOUBLE"`
	TrendDirection   string  `parquet:"name=trendDirection,type=BYTE_ARRAY,convertedtype=UTF8"`
	GeneratedAt      int64   `parquet:"name=generatedAt,type=INT64"`
}

func newOrderRow(order models.Order) OrderRow {
	row := OrderRow{
		ID:                order.ID,
		VendorID:          order.VendorID,
		Status:            string(order.Status),
		CreatedAt:         order.CreatedAt.Unix(),
		UpdatedAt:         order.UpdatedAt.Unix(),
		EstimatedDelivery: order.EstimatedDelivery.Unix(),
		GiftValue:         int32(order.GiftValue),
		GiftCategory:      order.GiftCategory,
		Rush:              order.Rush,
		Delayed:           order.Delayed,
		DeliveryDays:      int32(order.DeliveryDays),
		Backfilled:        order.Backfilled,
	}
	if order.ActualDelivery != nil {
		row.ActualDelivery = order.ActualDelivery.Unix()
	}
	return row
}

func newVendorReportRow(report models.VendorReport) VendorReportRow {
	return VendorReportRow{
		VendorID:         report.VendorID,
		ReportDate:       report.ReportDate,
		TotalOrders:      int32(report.Current.TotalOrders),
		OnTimePercentage: int32(report.Current.OnTimePercentage),
		IssueCount:       int32(report.Current.IssueCount),
		AvgDeliveryDays:  report.Current.AvgDeliveryDays,
		ReliabilityScore: int32(report.Current.ReliabilityScore),
		ScoreDelta:       report.Trend.ScoreDelta,
		TrendDirection:   report.Trend.Direction,
		GeneratedAt:      report.GeneratedAt.Unix(),
	}
}
