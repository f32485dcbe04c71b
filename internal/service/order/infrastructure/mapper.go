// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"database/sql"

	"oms/internal/service/order/domain"
)

func toOrderModel(order *domain.Order) *OrderModel {
	model := &OrderModel{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		Status:      string(order.Status),
		Paid:        order.Paid,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.PaidAt != nil {
		model.PaidAt = sql.NullTime{Time: *order.PaidAt, Valid: true}
	}
	if order.StripeChargeID != "" {
		model.StripeChargeID = sql.NullString{String: order.StripeChargeID, Valid: true}
	}
	for _, item := range order.Items {
		model.Items = append(model.Items, OrderItemModel{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if order.Receipt != nil {
		model.Receipt = &OrderReceiptModel{OrderID: order.ID, ReceiptURL: order.Receipt.ReceiptURL}
	}
	return model
}

func toDomainOrder(model *OrderModel) *domain.Order {
	order := &domain.Order{
		ID:          model.ID,
		TotalAmount: model.TotalAmount,
		TotalItems:  model.TotalItems,
		Status:      domain.Status(model.Status),
		Paid:        model.Paid,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.PaidAt.Valid {
		t := model.PaidAt.Time
		order.PaidAt = &t
	}
	if model.StripeChargeID.Valid {
		order.StripeChargeID = model.StripeChargeID.String
	}
	for _, item := range model.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if model.Receipt != nil {
		order.Receipt = &domain.OrderReceipt{ReceiptURL: model.Receipt.ReceiptURL}
	}
	return order
}
