package simulator

import (
	"github.com/calebmoran/giftsim/internal/models"
)

// Rand is the injectable pseudo-random source every probabilistic
// component draws from. *math/rand.Rand satisfies it, and a fixed seed
// makes simulation runs fully deterministic.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// StatusChange is emitted whenever a transition actually changed an
// order's status. It is the payload of the change-notification stream.
type StatusChange struct {
	OrderID    string             `json:"orderId"`
	VendorID   string             `json:"vendorId"`
	From       models.OrderStatus `json:"from,omitempty"`
	To         models.OrderStatus `json:"to"`
	OccurredAt int64              `json:"occurredAt"`
}

// StepResult summarises one live-driver invocation.
type StepResult struct {
	Created  int
	Advanced int
	Skipped  int // orders skipped due to per-order precondition errors
}

// BackfillStats summarises one backfill run.
type BackfillStats struct {
	Days          int
	OrdersWritten int
	Arrived       int
	Issues        int
}
