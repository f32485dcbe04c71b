// internal/service/order/infrastructure/adapter/payment_http_adapter.go
package adapter

import (
	"context"

	"oms/internal/pkg/httpclient"
	"oms/internal/service/order/domain/port"
)

const paymentSessionsPath = "/payments/sessions"

// PaymentHTTPAdapter implements port.PaymentService against the payment
// service's session endpoint.
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	service string
}

func NewPaymentHTTPAdapter(client *httpclient.Client, service string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, service: service}
}

type sessionItemPayload struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type createSessionRequest struct {
	OrderID  string               `json:"orderId"`
	Currency string               `json:"currency"`
	Items    []sessionItemPayload `json:"items"`
}

type createSessionResponse struct {
	CancelURL  string `json:"cancel_url"`
	SuccessURL string `json:"success_url"`
	URL        string `json:"url"`
}

// CreateSession requests a hosted payment session. The three URLs come back
// verbatim; no local validation is applied to them.
func (a *PaymentHTTPAdapter) CreateSession(ctx context.Context, req port.SessionRequest) (*port.PaymentSession, error) {
	payload := createSessionRequest{
		OrderID:  req.OrderID,
		Currency: req.Currency,
		Items:    make([]sessionItemPayload, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, sessionItemPayload{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	var resp createSessionResponse
	if err := a.client.PostJSON(ctx, a.service, paymentSessionsPath, payload, &resp); err != nil {
		return nil, err
	}
	return &port.PaymentSession{
		CancelURL:  resp.CancelURL,
		SuccessURL: resp.SuccessURL,
		PaymentURL: resp.URL,
	}, nil
}
