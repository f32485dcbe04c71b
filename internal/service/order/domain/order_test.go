package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_DerivesTotalsFromItems(t *testing.T) {
	order, err := NewOrder([]OrderItem{
		{ProductID: "P1", Name: "Widget", Price: 10.00, Quantity: 2},
		{ProductID: "P2", Name: "Gadget", Price: 3.50, Quantity: 4},
	})
	require.NoError(t, err)

	require.NotEmpty(t, order.ID)
	require.Equal(t, StatusPending, order.Status)
	require.InDelta(t, 34.00, order.TotalAmount, 1e-9)
	require.Equal(t, 6, order.TotalItems)
	require.False(t, order.Paid)
	require.Nil(t, order.PaidAt)
}

func TestNewOrder_RejectsEmptyAndInvalidItems(t *testing.T) {
	_, err := NewOrder(nil)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder([]OrderItem{{ProductID: "P1", Price: 1, Quantity: 0}})
	require.ErrorIs(t, err, ErrBadQuantity)

	_, err = NewOrder([]OrderItem{{ProductID: "P1", Price: -1, Quantity: 1}})
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestApplyPayment_IsIdempotent(t *testing.T) {
	order, err := NewOrder([]OrderItem{{ProductID: "P1", Price: 5, Quantity: 1}})
	require.NoError(t, err)

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	order.ApplyPayment("ch_123", "https://receipts/1", first)

	require.Equal(t, StatusPaid, order.Status)
	require.True(t, order.Paid)
	require.Equal(t, "ch_123", order.StripeChargeID)
	require.Equal(t, first, *order.PaidAt)
	require.Equal(t, "https://receipts/1", order.Receipt.ReceiptURL)

	// a redelivered event must not move paidAt or the charge id
	order.ApplyPayment("ch_456", "https://receipts/2", first.Add(time.Hour))
	require.Equal(t, first, *order.PaidAt)
	require.Equal(t, "ch_123", order.StripeChargeID)
	require.Equal(t, "https://receipts/1", order.Receipt.ReceiptURL)
}

func TestDistinctProductIDs_PreservesFirstSeenOrder(t *testing.T) {
	ids := DistinctProductIDs([]OrderItem{
		{ProductID: "P2"}, {ProductID: "P1"}, {ProductID: "P2"}, {ProductID: "P3"},
	})
	require.Equal(t, []string{"P2", "P1", "P3"}, ids)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("DELIVERED")
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, status)

	_, err = ParseStatus("SHIPPED")
	require.Error(t, err)
}

func TestAdminAssignable(t *testing.T) {
	require.True(t, StatusPending.AdminAssignable())
	require.True(t, StatusDelivered.AdminAssignable())
	require.True(t, StatusCancelled.AdminAssignable())
	require.False(t, StatusPaid.AdminAssignable())
}
