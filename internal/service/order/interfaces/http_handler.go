// internal/service/order/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"oms/internal/pkg/logger"
	"oms/internal/pkg/metrics"
	"oms/internal/service/order/application"
	"oms/internal/service/order/domain"
	"oms/internal/service/order/domain/port"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// OrderHandler is the inbound HTTP edge of the order service. It decodes
// transport DTOs, hands them to the application service and maps the
// {status, message} error shape back onto HTTP.
type OrderHandler struct {
	service *application.OrderApplicationService
	metrics *metrics.ServerMetrics
}

func NewOrderHandler(service *application.OrderApplicationService, m *metrics.ServerMetrics) *OrderHandler {
	return &OrderHandler{service: service, metrics: m}
}

// RegisterRoutes registers all routes on the ServeMux.
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("POST /orders", h.instrument("create_order", h.createOrder))
	mux.HandleFunc("GET /orders", h.instrument("find_all_orders", h.findAllOrders))
	mux.HandleFunc("GET /orders/{id}", h.instrument("find_one_order", h.findOneOrder))
	mux.HandleFunc("PATCH /orders/{id}/status", h.instrument("change_order_status", h.changeOrderStatus))
}

type createOrderResponse struct {
	Order          orderPayload          `json:"order"`
	PaymentSession paymentSessionPayload `json:"paymentSession"`
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	order, err := h.service.Create(ctx, &req)
	if err != nil {
		writeError(w, domain.AsError(err))
		return
	}

	// The order is already persisted; a payment-session failure surfaces to
	// the caller but leaves the PENDING order in place.
	session, err := h.service.CreatePaymentSession(ctx, order)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).
			Msg("payment session creation failed for persisted order")
		writeError(w, domain.AsError(err))
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Order:          toOrderPayload(order),
		PaymentSession: toPaymentSessionPayload(session),
	})
}

func (h *OrderHandler) findAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	query := application.OrderQuery{Page: defaultPage, Limit: defaultLimit}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			writeError(w, domain.NewValidationError(err.Error()))
			return
		}
		query.Status = &status
	}
	var err error
	if query.Page, err = intParam(r, "page", defaultPage); err != nil {
		writeError(w, domain.NewValidationError("page must be a positive integer"))
		return
	}
	if query.Limit, err = intParam(r, "limit", defaultLimit); err != nil {
		writeError(w, domain.NewValidationError("limit must be a positive integer"))
		return
	}

	page, err := h.service.FindAll(ctx, query)
	if err != nil {
		writeError(w, domain.AsError(err))
		return
	}

	data := make([]orderPayload, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, toOrderPayload(&page.Data[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data, "meta": page.Meta})
}

func (h *OrderHandler) findOneOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	order, err := h.service.FindOne(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, domain.AsError(err))
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := extractTraceContext(r)

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, domain.NewValidationError(err.Error()))
		return
	}

	order, err := h.service.ChangeStatus(ctx, r.PathValue("id"), status)
	if err != nil {
		writeError(w, domain.AsError(err))
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

// instrument wraps a handler with the request counter and latency histogram.
func (h *OrderHandler) instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		if h.metrics != nil {
			h.metrics.Requests.WithLabelValues(name, strconv.Itoa(recorder.status)).Inc()
			h.metrics.LatencyMS.WithLabelValues(name).Observe(float64(time.Since(start).Milliseconds()))
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func extractTraceContext(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

type errorPayload struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err *domain.Error) {
	writeJSON(w, err.Status, errorPayload{Status: err.Status, Message: err.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type orderItemPayload struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderPayload struct {
	ID             string             `json:"id"`
	TotalAmount    float64            `json:"totalAmount"`
	TotalItems     int                `json:"totalItems"`
	Status         string             `json:"status"`
	Paid           bool               `json:"paid"`
	PaidAt         *time.Time         `json:"paidAt"`
	StripeChargeID string             `json:"stripeChargeId,omitempty"`
	Items          []orderItemPayload `json:"items,omitempty"`
	ReceiptURL     string             `json:"receiptUrl,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type paymentSessionPayload struct {
	CancelURL  string `json:"cancelUrl"`
	SuccessURL string `json:"successUrl"`
	PaymentURL string `json:"paymentUrl"`
}

func toOrderPayload(order *domain.Order) orderPayload {
	payload := orderPayload{
		ID:             order.ID,
		TotalAmount:    order.TotalAmount,
		TotalItems:     order.TotalItems,
		Status:         string(order.Status),
		Paid:           order.Paid,
		PaidAt:         order.PaidAt,
		StripeChargeID: order.StripeChargeID,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if order.Receipt != nil {
		payload.ReceiptURL = order.Receipt.ReceiptURL
	}
	return payload
}

func toPaymentSessionPayload(session *port.PaymentSession) paymentSessionPayload {
	return paymentSessionPayload{
		CancelURL:  session.CancelURL,
		SuccessURL: session.SuccessURL,
		PaymentURL: session.PaymentURL,
	}
}
