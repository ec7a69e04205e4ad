package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
	"github.com/calebmoran/giftsim/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
	id, vendor_id, status, created_at, updated_at, estimated_delivery,
	actual_delivery, gift_value, gift_category, rush, delayed,
	delivery_days, backfilled`

const insertOrder = `
	INSERT INTO orders (
		id, vendor_id, status, created_at, updated_at, estimated_delivery,
		actual_delivery, gift_value, gift_category, rush, delayed,
		delivery_days, backfilled
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// CreateIfAbsent performs a conditional put: the insert fails softly when
// the id already exists, surfacing ErrOrderExists to the caller.
func (r *OrderRepository) CreateIfAbsent(ctx context.Context, order *models.Order) error {
	tag, err := r.pool.Exec(ctx, insertOrder+` ON CONFLICT (id) DO NOTHING`, orderArgs(order)...)
	if err != nil {
		return fmt.Errorf("error inserting order %s: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrOrderExists, order.ID)
	}
	return nil
}

// UpdateStatus writes the mutable field set only; the transition recompute
// is idempotent, so replays of the same update are harmless.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			status = $2, updated_at = $3, actual_delivery = $4,
			delayed = $5, delivery_days = $6
		WHERE id = $1`,
		order.ID, order.Status, order.UpdatedAt, order.ActualDelivery,
		order.Delayed, order.DeliveryDays,
	)
	if err != nil {
		return fmt.Errorf("error updating order %s: %w", order.ID, err)
	}
	return nil
}

func (r *OrderRepository) GetByVendorAndDateRange(ctx context.Context, vendorID string, from, to time.Time) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE vendor_id = $1 AND created_at >= $2 AND created_at <= $3`,
		vendorID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying orders for vendor %s: %w", vendorID, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying orders by status %s: %w", status, err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ScanSince is the filtered scan used by the aggregator: every order
// created at or after the cutoff plus all still-open ones, so active
// population counts stay accurate.
func (r *OrderRepository) ScanSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE created_at >= $1
		   OR status IN ($2, $3, $4)`,
		since,
		models.OrderStatusPlaced, models.OrderStatusShippingOnTime, models.OrderStatusShippingDelayed,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// BatchWrite inserts in independent chunks of BatchChunkSize rows.
// A failure aborts the run but keeps previously committed chunks (no
// rollback across chunks). Returns the number of rows written.
func (r *OrderRepository) BatchWrite(ctx context.Context, orders []models.Order) (int, error) {
	written := 0
	for start := 0; start < len(orders); start += repositories.BatchChunkSize {
		end := start + repositories.BatchChunkSize
		if end > len(orders) {
			end = len(orders)
		}

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			batch.Queue(insertOrder+` ON CONFLICT (id) DO NOTHING`, orderArgs(&orders[i])...)
		}

		results := r.pool.SendBatch(ctx, batch)
		if err := flushBatch(results, end-start); err != nil {
			return written, fmt.Errorf("error writing order chunk at %d: %w", start, err)
		}
		written += end - start
	}
	return written, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func flushBatch(results pgx.BatchResults, n int) error {
	defer results.Close()
	for i := 0; i < n; i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func orderArgs(order *models.Order) []any {
	return []any{
		order.ID,
		order.VendorID,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
		order.EstimatedDelivery,
		order.ActualDelivery,
		order.GiftValue,
		order.GiftCategory,
		order.Rush,
		order.Delayed,
		order.DeliveryDays,
		order.Backfilled,
	}
}

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.VendorID,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.EstimatedDelivery,
			&order.ActualDelivery,
			&order.GiftValue,
			&order.GiftCategory,
			&order.Rush,
			&order.Delayed,
			&order.DeliveryDays,
			&order.Backfilled,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
