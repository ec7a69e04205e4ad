package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/calebmoran/giftsim/internal/models"
)

// ErrOrderExists is returned by CreateIfAbsent when the order id is
// already present; new-order creation is conditional-on-absence so
// at-least-once re-invocation by the scheduler stays safe.
var ErrOrderExists = errors.New("order already exists")

// BatchChunkSize caps the rows per batch-write transaction. Chunks are
// committed independently so a terminated invocation keeps its partial
// progress.
const BatchChunkSize = 25

type OrderRepository interface {
	CreateIfAbsent(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, order *models.Order) error
	GetByVendorAndDateRange(ctx context.Context, vendorID string, from, to time.Time) ([]models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ScanSince(ctx context.Context, since time.Time) ([]models.Order, error)
	BatchWrite(ctx context.Context, orders []models.Order) (int, error)
	Count(ctx context.Context) (int, error)
}

type ReportRepository interface {
	UpsertVendorReports(ctx context.Context, reports []models.VendorReport) error
	UpsertDashboardSummary(ctx context.Context, summary models.DashboardSummary) error
}
