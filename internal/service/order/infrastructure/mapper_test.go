package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oms/internal/service/order/domain"
)

func TestOrderMapperRoundTrip(t *testing.T) {
	paidAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:             "7d4f9a52-1111-2222-3333-444455556666",
		TotalAmount:    20.00,
		TotalItems:     2,
		Status:         domain.StatusPaid,
		Paid:           true,
		PaidAt:         &paidAt,
		StripeChargeID: "ch_abc",
		Items: []domain.OrderItem{
			{ProductID: "P1", Name: "Widget", Price: 10.00, Quantity: 2},
		},
		Receipt:   &domain.OrderReceipt{ReceiptURL: "https://receipts/abc"},
		CreatedAt: paidAt.Add(-time.Hour),
		UpdatedAt: paidAt,
	}

	model := toOrderModel(order)
	require.Equal(t, order.ID, model.ID)
	require.True(t, model.PaidAt.Valid)
	require.True(t, model.StripeChargeID.Valid)
	require.Equal(t, order.ID, model.Items[0].OrderID)
	require.Equal(t, order.ID, model.Receipt.OrderID)

	back := toDomainOrder(model)
	require.Equal(t, order.ID, back.ID)
	require.Equal(t, order.Status, back.Status)
	require.Equal(t, order.TotalAmount, back.TotalAmount)
	require.Equal(t, paidAt, *back.PaidAt)
	require.Equal(t, "ch_abc", back.StripeChargeID)
	require.Equal(t, "https://receipts/abc", back.Receipt.ReceiptURL)
	require.Equal(t, order.Items[0].Price, back.Items[0].Price)
	require.Equal(t, order.Items[0].Quantity, back.Items[0].Quantity)
	// item names are a read-time enrichment; they never survive persistence
	require.Empty(t, back.Items[0].Name)
}

func TestOrderMapper_PendingOrderHasNullPaidFields(t *testing.T) {
	order, err := domain.NewOrder([]domain.OrderItem{{ProductID: "P1", Price: 5, Quantity: 1}})
	require.NoError(t, err)

	model := toOrderModel(order)
	require.False(t, model.Paid)
	require.False(t, model.PaidAt.Valid)
	require.False(t, model.StripeChargeID.Valid)
	require.Nil(t, model.Receipt)

	back := toDomainOrder(model)
	require.Nil(t, back.PaidAt)
	require.Empty(t, back.StripeChargeID)
	require.Nil(t, back.Receipt)
}
