// internal/service/order/domain/order.go
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Order is the aggregate root. It owns its items and, once paid, a single
// receipt; neither is addressable outside the aggregate.
type Order struct {
	ID             string
	TotalAmount    float64
	TotalItems     int
	Status         Status
	Paid           bool
	PaidAt         *time.Time
	StripeChargeID string
	Items          []OrderItem
	Receipt        *OrderReceipt
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem carries the price snapshot taken from the catalog at creation
// time; it is never re-priced afterwards. Name is a read-time enrichment from
// the catalog and is not persisted.
type OrderItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

// OrderReceipt is created exactly once, when the payment succeeds.
type OrderReceipt struct {
	ReceiptURL string
}

var (
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrBadQuantity   = errors.New("order item quantity must be positive")
	ErrNegativePrice = errors.New("order item price must not be negative")
)

// NewOrder builds a PENDING order from catalog-priced items. Totals are
// derived here and only here; they are never mutated independently.
func NewOrder(items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var totalAmount float64
	var totalItems int
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
		if item.Price < 0 {
			return nil, ErrNegativePrice
		}
		totalAmount += item.Price * float64(item.Quantity)
		totalItems += item.Quantity
	}

	now := time.Now().UTC()
	return &Order{
		ID:          uuid.New().String(),
		TotalAmount: totalAmount,
		TotalItems:  totalItems,
		Status:      StatusPending,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyPayment finalizes the order from a payment-succeeded notification.
// Re-applying with the same charge keeps the original paidAt, so redelivery
// converges to the same observable state.
func (o *Order) ApplyPayment(chargeID, receiptURL string, at time.Time) {
	if o.Paid {
		return
	}
	o.Status = StatusPaid
	o.Paid = true
	o.PaidAt = &at
	o.StripeChargeID = chargeID
	o.Receipt = &OrderReceipt{ReceiptURL: receiptURL}
	o.UpdatedAt = at
}

// ProductIDs returns the distinct product ids referenced by the items, in
// first-seen order.
func (o *Order) ProductIDs() []string {
	return DistinctProductIDs(o.Items)
}

// DistinctProductIDs collects unique product ids from items, preserving the
// order of first appearance.
func DistinctProductIDs(items []OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
