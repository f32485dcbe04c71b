package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"oms/internal/service/order/application"
	"oms/internal/service/order/domain"
	"oms/internal/service/order/domain/port"
)

type stubRepo struct {
	orders map[string]*domain.Order
}

func (s *stubRepo) Create(_ context.Context, order *domain.Order) error {
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) CountByStatus(_ context.Context, _ *domain.Status) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *stubRepo) ListByStatus(_ context.Context, _ *domain.Status, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	if offset >= len(out) {
		return nil, nil
	}
	if offset+limit < len(out) {
		out = out[offset : offset+limit]
	} else {
		out = out[offset:]
	}
	return out, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	o, ok := s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubRepo) MarkPaid(_ context.Context, id, chargeID, receiptURL string, paidAt time.Time) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.ApplyPayment(chargeID, receiptURL, paidAt)
	cp := *o
	return &cp, nil
}

type stubCatalog struct{}

func (stubCatalog) ValidateProducts(_ context.Context, ids []string) ([]port.Product, error) {
	var out []port.Product
	for _, id := range ids {
		if id == "P1" {
			out = append(out, port.Product{ID: "P1", Name: "Widget", Price: 10.00})
		}
	}
	return out, nil
}

type stubPayment struct{}

func (stubPayment) CreateSession(_ context.Context, _ port.SessionRequest) (*port.PaymentSession, error) {
	return &port.PaymentSession{
		CancelURL:  "https://pay/cancel",
		SuccessURL: "https://pay/success",
		PaymentURL: "https://pay/session/1",
	}, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *stubRepo) {
	t.Helper()
	repo := &stubRepo{orders: map[string]*domain.Order{}}
	svc := application.NewOrderApplicationService(repo, stubCatalog{}, stubPayment{}, otel.Tracer("test"), time.Second, "usd")

	mux := http.NewServeMux()
	NewOrderHandler(svc, nil).RegisterRoutes(mux)
	return mux, repo
}

func TestCreateOrderEndpoint(t *testing.T) {
	mux, repo := newTestMux(t)

	body := `{"items":[{"productId":"P1","quantity":2,"price":0}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order struct {
			ID          string  `json:"id"`
			TotalAmount float64 `json:"totalAmount"`
			TotalItems  int     `json:"totalItems"`
			Status      string  `json:"status"`
			Items       []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"items"`
		} `json:"order"`
		PaymentSession struct {
			CancelURL  string `json:"cancelUrl"`
			SuccessURL string `json:"successUrl"`
			PaymentURL string `json:"paymentUrl"`
		} `json:"paymentSession"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.InDelta(t, 20.00, resp.Order.TotalAmount, 1e-9)
	require.Equal(t, 2, resp.Order.TotalItems)
	require.Equal(t, "PENDING", resp.Order.Status)
	require.Equal(t, "Widget", resp.Order.Items[0].Name)
	require.InDelta(t, 10.00, resp.Order.Items[0].Price, 1e-9)
	require.Equal(t, "https://pay/session/1", resp.PaymentSession.PaymentURL)
	require.Contains(t, repo.orders, resp.Order.ID)
}

func TestCreateOrderEndpoint_UnknownProduct(t *testing.T) {
	mux, repo := newTestMux(t)

	body := `{"items":[{"productId":"NOPE","quantity":1}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, repo.orders)

	var resp struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Contains(t, resp.Message, "NOPE")
}

func TestFindOneEndpoint_NotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/2b6f2c0e-0000-0000-0000-000000000000", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Contains(t, resp.Message, "not found")
}

func TestFindAllEndpoint_RejectsBadPagination(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?limit=0", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?page=abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeStatusEndpoint(t *testing.T) {
	mux, repo := newTestMux(t)

	order, err := domain.NewOrder([]domain.OrderItem{{ProductID: "P1", Price: 10, Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), order))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/"+order.ID+"/status",
		strings.NewReader(`{"status":"CANCELLED"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.StatusCancelled, repo.orders[order.ID].Status)

	// unknown enum values never reach the service
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/"+order.ID+"/status",
		strings.NewReader(`{"status":"SHIPPED"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
