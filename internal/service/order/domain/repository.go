// internal/service/order/domain/repository.go
package domain

import (
	"context"
	"time"
)

// OrderRepository is the persistence port for the order aggregate. It is
// defined in the domain layer and implemented by the infrastructure layer.
type OrderRepository interface {
	// Create persists the order and its items as one transaction; the store
	// never holds an order without its items or vice versa.
	Create(ctx context.Context, order *Order) error

	// FindByID loads the aggregate with its items (and receipt, if any).
	// Returns ErrNotFound on a miss.
	FindByID(ctx context.Context, id string) (*Order, error)

	// CountByStatus counts orders, optionally filtered by status.
	CountByStatus(ctx context.Context, status *Status) (int64, error)

	// ListByStatus returns one page of orders (items not loaded).
	ListByStatus(ctx context.Context, status *Status, offset, limit int) ([]Order, error)

	// UpdateStatus writes only the status column for the given order.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// MarkPaid applies the payment outcome and upserts the receipt in one
	// transaction. The paid fields are written once; redelivery keeps the
	// original paidAt and charge id. Returns the resulting aggregate.
	MarkPaid(ctx context.Context, id, chargeID, receiptURL string, paidAt time.Time) (*Order, error)
}
