package postgres

import (
	"context"
	"fmt"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, cfg *models.DatabaseConfig) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the order and report tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			estimated_delivery TIMESTAMPTZ NOT NULL,
			actual_delivery TIMESTAMPTZ,
			gift_value INTEGER NOT NULL,
			gift_category TEXT NOT NULL,
			rush BOOLEAN NOT NULL DEFAULT FALSE,
			delayed BOOLEAN NOT NULL DEFAULT FALSE,
			delivery_days INTEGER NOT NULL DEFAULT 0,
			backfilled BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_vendor_created ON orders (vendor_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
		`CREATE TABLE IF NOT EXISTS vendor_reports (
			vendor_id TEXT NOT NULL,
			report_date DATE NOT NULL,
			vendor_name TEXT NOT NULL,
			current_metrics JSONB NOT NULL,
			previous_metrics JSONB NOT NULL,
			trend JSONB NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (vendor_id, report_date)
		)`,
		`CREATE TABLE IF NOT EXISTS dashboard_summaries (
			report_date DATE PRIMARY KEY,
			summary JSONB NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}
