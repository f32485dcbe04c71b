// internal/service/order/domain/port/payment.go
package port

import "context"

// SessionItem is one line of the hosted payment page.
type SessionItem struct {
	Name     string
	Price    float64
	Quantity int
}

// SessionRequest asks the payment service for a hosted session.
type SessionRequest struct {
	OrderID  string
	Currency string
	Items    []SessionItem
}

// PaymentSession carries the three URLs verbatim from the payment service.
type PaymentSession struct {
	CancelURL  string
	SuccessURL string
	PaymentURL string
}

// PaymentService is the outbound port to the payment collaborator.
type PaymentService interface {
	CreateSession(ctx context.Context, req SessionRequest) (*PaymentSession, error)
}
