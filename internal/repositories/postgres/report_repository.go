package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// UpsertVendorReports replaces each report wholesale, keyed by
// (vendor id, report date). Aggregation regenerates, never patches.
func (r *ReportRepository) UpsertVendorReports(ctx context.Context, reports []models.VendorReport) error {
	for _, report := range reports {
		current, err := json.Marshal(report.Current)
		if err != nil {
			return fmt.Errorf("error encoding report for vendor %s: %w", report.VendorID, err)
		}
		previous, err := json.Marshal(report.Previous)
		if err != nil {
			return fmt.Errorf("error encoding report for vendor %s: %w", report.VendorID, err)
		}
		trend, err := json.Marshal(report.Trend)
		if err != nil {
			return fmt.Errorf("error encoding report for vendor %s: %w", report.VendorID, err)
		}

		_, err = r.pool.Exec(ctx, `
			INSERT INTO vendor_reports (
				vendor_id, report_date, vendor_name,
				current_metrics, previous_metrics, trend, generated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (vendor_id, report_date) DO UPDATE SET
				vendor_name = EXCLUDED.vendor_name,
				current_metrics = EXCLUDED.current_metrics,
				previous_metrics = EXCLUDED.previous_metrics,
				trend = EXCLUDED.trend,
				generated_at = EXCLUDED.generated_at`,
			report.VendorID, report.ReportDate, report.VendorName,
			current, previous, trend, report.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("error upserting report for vendor %s: %w", report.VendorID, err)
		}
	}
	return nil
}

func (r *ReportRepository) UpsertDashboardSummary(ctx context.Context, summary models.DashboardSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("error encoding dashboard summary: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO dashboard_summaries (report_date, summary, generated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (report_date) DO UPDATE SET
			summary = EXCLUDED.summary,
			generated_at = EXCLUDED.generated_at`,
		summary.ReportDate, payload, summary.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting dashboard summary: %w", err)
	}
	return nil
}
