// internal/service/order/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"oms/internal/pkg/logger"
	"oms/internal/service/order/domain"
	"oms/internal/service/order/domain/port"
)

// OrderApplicationService orchestrates the order lifecycle: it builds priced
// orders, persists them, requests payment sessions, applies status
// transitions, answers queries and finalizes orders on payment events.
type OrderApplicationService struct {
	orderRepo      domain.OrderRepository
	catalog        port.CatalogService
	payment        port.PaymentService
	tracer         trace.Tracer
	gatewayTimeout time.Duration
	currency       string
}

func NewOrderApplicationService(orderRepo domain.OrderRepository, catalog port.CatalogService, payment port.PaymentService, tracer trace.Tracer, gatewayTimeout time.Duration, currency string) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:      orderRepo,
		catalog:        catalog,
		payment:        payment,
		tracer:         tracer,
		gatewayTimeout: gatewayTimeout,
		currency:       currency,
	}
}

// Create validates and prices the requested items against the catalog in one
// batched call, then persists the order and its items atomically. Any product
// id the catalog does not know fails the whole order before persistence.
// Returned items carry the catalog name as a read-time enrichment.
func (s *OrderApplicationService) Create(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()

	if len(req.Items) == 0 {
		return nil, domain.NewValidationError("order must contain at least one item")
	}

	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	span.SetAttributes(attribute.Int("order.distinct_products", len(ids)))

	products, err := s.validateProducts(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog validation failed")
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, ok := products[reqItem.ProductID]
		if !ok {
			err := domain.NewValidationError(fmt.Sprintf("product with id %s not found", reqItem.ProductID))
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid product reference")
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID: reqItem.ProductID,
			Name:      product.Name,
			// price snapshot: the caller-supplied price is discarded
			Price:    product.Price,
			Quantity: reqItem.Quantity,
		})
	}

	order, err := domain.NewOrder(items)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order persistence failed")
		return nil, domain.NewRemoteError("could not persist order", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Float64("order.total_amount", order.TotalAmount),
		attribute.Int("order.total_items", order.TotalItems),
	)
	logger.Ctx(ctx).Info().Str("order_id", order.ID).
		Float64("total_amount", order.TotalAmount).Int("total_items", order.TotalItems).
		Msg("order created")
	return order, nil
}

// CreatePaymentSession asks the payment collaborator for a hosted session for
// an already persisted order. A failure here is reported but never rolls the
// order back; it stays PENDING.
func (s *OrderApplicationService) CreatePaymentSession(ctx context.Context, order *domain.Order) (*port.PaymentSession, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreatePaymentSession")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID))

	sessionItems := make([]port.SessionItem, 0, len(order.Items))
	for _, item := range order.Items {
		sessionItems = append(sessionItems, port.SessionItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	session, err := s.payment.CreateSession(callCtx, port.SessionRequest{
		OrderID:  order.ID,
		Currency: s.currency,
		Items:    sessionItems,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment session creation failed")
		return nil, domain.NewRemoteError("payment service unavailable", err)
	}
	return session, nil
}

// FindOne loads an order with its items and re-resolves the item names
// through a fresh catalog lookup. Stored prices and quantities are returned
// as persisted, never re-derived.
func (s *OrderApplicationService) FindOne(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.FindOneOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("Order with id %s not found", id))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "order lookup failed")
		return nil, domain.NewRemoteError("could not load order", err)
	}

	products, err := s.validateProducts(ctx, order.ProductIDs())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog enrichment failed")
		return nil, err
	}
	for i := range order.Items {
		product, ok := products[order.Items[i].ProductID]
		if !ok {
			err := domain.NewValidationError(fmt.Sprintf("product with id %s not found", order.Items[i].ProductID))
			span.RecordError(err)
			return nil, err
		}
		order.Items[i].Name = product.Name
	}
	return order, nil
}

// FindAll returns one page of orders, optionally filtered by status, plus the
// metadata of the full result set. Count and page are two separate store
// calls.
func (s *OrderApplicationService) FindAll(ctx context.Context, query OrderQuery) (*OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "app.FindAllOrders")
	defer span.End()

	offset, take, err := window(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.CountByStatus(ctx, query.Status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order count failed")
		return nil, domain.NewRemoteError("could not count orders", err)
	}
	data, err := s.orderRepo.ListByStatus(ctx, query.Status, offset, take)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order listing failed")
		return nil, domain.NewRemoteError("could not list orders", err)
	}

	return &OrderPage{Data: data, Meta: newMeta(total, query.Page, query.Limit)}, nil
}

// ChangeStatus applies an administrative status transition. Setting the
// current status again is a no-op that returns the already-fetched order
// without a store write. PAID is not assignable here; it is reserved for the
// payment reconciliation path.
func (s *OrderApplicationService) ChangeStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ChangeOrderStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", id),
		attribute.String("order.new_status", string(status)),
	)

	if !status.AdminAssignable() {
		return nil, domain.NewValidationError("status PAID is set by payment reconciliation only")
	}

	order, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		span.AddEvent("status unchanged, skipping write")
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status update failed")
		return nil, domain.NewRemoteError("could not update order status", err)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

// PaidOrder reconciles an order against a payment-succeeded notification:
// one store transaction sets PAID, the paid fields and the receipt. It does
// not read the order first and does not depend on its prior status.
func (s *OrderApplicationService) PaidOrder(ctx context.Context, event *PaymentSucceededEvent) error {
	ctx, span := s.tracer.Start(ctx, "app.PaidOrder", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.String("payment.charge_id", event.StripePaymentID),
	)

	order, err := s.orderRepo.MarkPaid(ctx, event.OrderID, event.StripePaymentID, event.ReceiptURL, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment reconciliation failed")
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFoundError(fmt.Sprintf("Order with id %s not found", event.OrderID))
		}
		return domain.NewRemoteError("could not mark order as paid", err)
	}

	logger.Ctx(ctx).Info().Str("order_id", order.ID).Str("charge_id", event.StripePaymentID).
		Msg("order marked as paid")
	return nil
}

// validateProducts performs the batched, timeout-bounded catalog call and
// indexes the reply by product id.
func (s *OrderApplicationService) validateProducts(ctx context.Context, ids []string) (map[string]port.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	products, err := s.catalog.ValidateProducts(callCtx, ids)
	if err != nil {
		return nil, domain.NewRemoteError("catalog service unavailable", err)
	}

	byID := make(map[string]port.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
