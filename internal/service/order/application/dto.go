// internal/service/order/application/dto.go
package application

import "oms/internal/service/order/domain"

// CreateOrderItem is one requested line. The caller may send a price but it
// is never trusted; the catalog price always overwrites it.
type CreateOrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderRequest is the input of the create-order use case.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

// OrderQuery filters and paginates the order listing.
type OrderQuery struct {
	Status *domain.Status
	Page   int
	Limit  int
}

// OrderPage is one page of orders plus its pagination metadata.
type OrderPage struct {
	Data []domain.Order `json:"data"`
	Meta Meta           `json:"meta"`
}

// PaymentSucceededEvent is the asynchronous payment notification payload.
type PaymentSucceededEvent struct {
	OrderID         string `json:"orderId"`
	StripePaymentID string `json:"stripePaymentId"`
	ReceiptURL      string `json:"receiptUrl"`
}

// DedupKey identifies one delivery of the event for idempotency purposes.
func (e *PaymentSucceededEvent) DedupKey() string {
	return e.OrderID + ":" + e.StripePaymentID
}
