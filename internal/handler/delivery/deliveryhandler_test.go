package deliveryhandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/renanjardim/back-end-rota-certa/internal/domain"
	deliveryhandler "github.com/renanjardim/back-end-rota-certa/internal/handler/delivery"
	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
)

type fakeDeliveryService struct {
	createID     int64
	deliveries   []domain.Delivery
	err          error
	createCalled bool
	lastDelivery int64
	lastActor    int64
	lastFilter   domain.DeliveryFilter
}

func (f *fakeDeliveryService) Create(_ int64, _ float64, _, _, _ string) (int64, error) {
	f.createCalled = true
	return f.createID, f.err
}

func (f *fakeDeliveryService) Deliveries(_ int64, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	f.lastFilter = filter
	return f.deliveries, f.err
}

func (f *fakeDeliveryService) Accept(deliveryID, courierID int64) error {
	f.lastDelivery = deliveryID
	f.lastActor = courierID
	return f.err
}

func (f *fakeDeliveryService) Complete(deliveryID, courierID int64) error {
	f.lastDelivery = deliveryID
	f.lastActor = courierID
	return f.err
}

func (f *fakeDeliveryService) Fail(deliveryID, courierID int64) error {
	f.lastDelivery = deliveryID
	f.lastActor = courierID
	return f.err
}

func (f *fakeDeliveryService) CompleteReturn(deliveryID, requesterID int64) error {
	f.lastDelivery = deliveryID
	f.lastActor = requesterID
	return f.err
}

func newRouter(svc deliveryhandler.DeliveryService) *chi.Mux {
	h := deliveryhandler.New(svc)
	r := chi.NewRouter()
	r.Post("/deliveries", h.Create)
	r.Get("/deliveries", h.List)
	r.Patch("/deliveries/{id}/accept", h.Accept)
	r.Post("/deliveries/{id}/complete", h.Complete)
	r.Patch("/deliveries/{id}/fail", h.Fail)
	r.Post("/deliveries/{id}/complete-return", h.CompleteReturn)
	return r
}

func authenticated(req *http.Request, userID string) *http.Request {
	req.Header.Set("User-ID", userID)
	return req
}

func TestCreateDelivery(t *testing.T) {
	svc := &fakeDeliveryService{createID: 7}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/deliveries",
		strings.NewReader(`{"valor":35.5,"origem":"Rua A, 10","destino":"Av. B, 200","descricao":"Documentos"}`)), "42")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.DeliveryCreated
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, int64(7), resp.DeliveryID)
}

func TestCreateDeliveryInvalidAmount(t *testing.T) {
	svc := &fakeDeliveryService{}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/deliveries",
		strings.NewReader(`{"valor":0,"origem":"Rua A","destino":"Av. B"}`)), "42")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, svc.createCalled)
}

func TestCreateDeliveryInsufficientFunds(t *testing.T) {
	svc := &fakeDeliveryService{err: domain.ErrInsufficientFunds}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/deliveries",
		strings.NewReader(`{"valor":500,"origem":"Rua A","destino":"Av. B"}`)), "42")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestListDeliveriesEmpty(t *testing.T) {
	svc := &fakeDeliveryService{}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodGet, "/deliveries", nil), "42")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListDeliveriesWithFilters(t *testing.T) {
	courierID := int64(17)
	svc := &fakeDeliveryService{deliveries: []domain.Delivery{
		{
			ID:          7,
			RequesterID: 42,
			CourierID:   &courierID,
			Status:      domain.DeliveryAccepted,
			Amount:      35.5,
			Origin:      "Rua A, 10",
			Destination: "Av. B, 200",
			CreatedAt:   time.Date(2024, 3, 1, 15, 15, 45, 0, time.UTC),
		},
	}}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodGet, "/deliveries?status=accepted&disponiveis=true", nil), "42")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.DeliveryFilter{Status: "accepted", AvailableOnly: true}, svc.lastFilter)

	var resp []dto.Delivery
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	require.Equal(t, int64(42), resp[0].RequesterID)
	require.NotNil(t, resp[0].CourierID)
	require.Equal(t, int64(17), *resp[0].CourierID)
}

func TestAcceptDelivery(t *testing.T) {
	svc := &fakeDeliveryService{}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPatch, "/deliveries/7/accept", nil), "17")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), svc.lastDelivery)
	require.Equal(t, int64(17), svc.lastActor)

	var resp dto.DeliveryStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, domain.DeliveryAccepted, resp.Status)
}

func TestTransitionErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		err    error
		code   int
	}{
		{"accept conflict", http.MethodPatch, "/deliveries/7/accept", domain.ErrDeliveryConflict, http.StatusConflict},
		{"accept own delivery", http.MethodPatch, "/deliveries/7/accept", domain.ErrOwnDelivery, http.StatusConflict},
		{"accept missing", http.MethodPatch, "/deliveries/7/accept", domain.ErrDeliveryNotFound, http.StatusNotFound},
		{"complete by outsider", http.MethodPost, "/deliveries/7/complete", domain.ErrNotParticipant, http.StatusForbidden},
		{"fail conflict", http.MethodPatch, "/deliveries/7/fail", domain.ErrDeliveryConflict, http.StatusConflict},
		{"return by outsider", http.MethodPost, "/deliveries/7/complete-return", domain.ErrNotParticipant, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeDeliveryService{err: tt.err}
			rec := httptest.NewRecorder()
			req := authenticated(httptest.NewRequest(tt.method, tt.target, nil), "17")

			newRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestMissingIdentityHeader(t *testing.T) {
	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/deliveries", strings.NewReader(`{"valor":10,"origem":"Rua A","destino":"Av. B"}`)),
		httptest.NewRequest(http.MethodGet, "/deliveries", nil),
		httptest.NewRequest(http.MethodPatch, "/deliveries/7/accept", nil),
	}

	for _, req := range requests {
		svc := &fakeDeliveryService{}
		rec := httptest.NewRecorder()

		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", req.Method, req.URL.Path)
		require.False(t, svc.createCalled)
		require.Zero(t, svc.lastDelivery)
	}
}

func TestTransitionInvalidID(t *testing.T) {
	svc := &fakeDeliveryService{}
	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPatch, "/deliveries/abc/accept", nil), "17")

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
