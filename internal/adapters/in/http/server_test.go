package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVerifier struct{ mock.Mock }

func (m *MockVerifier) Verify(ctx context.Context, token string) (identity.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.Actor), args.Error(1)
}

type MockPlaceOrder struct{ mock.Mock }

func (m *MockPlaceOrder) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	placed, _ := args.Get(0).(*order.Order)
	return placed, args.Error(1)
}

type MockAcceptOrder struct{ mock.Mock }

func (m *MockAcceptOrder) Handle(ctx context.Context, cmd commands.AcceptOrderCommand) (commands.AcceptOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AcceptOrderResult), args.Error(1)
}

type MockFinalize struct{ mock.Mock }

func (m *MockFinalize) Handle(ctx context.Context, cmd commands.FinalizeDeliveryCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockReportPosition struct{ mock.Mock }

func (m *MockReportPosition) Handle(ctx context.Context, cmd commands.ReportDriverPositionCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockAvailableOrders struct{ mock.Mock }

func (m *MockAvailableOrders) Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.OrderSummary, error) {
	args := m.Called(ctx, query)
	summaries, _ := args.Get(0).([]queries.OrderSummary)
	return summaries, args.Error(1)
}

type MockStatistics struct{ mock.Mock }

func (m *MockStatistics) Handle(ctx context.Context, query queries.GetOrderStatisticsQuery) (services.Summary, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(services.Summary), args.Error(1)
}

type recordingMetrics struct {
	requests  []int
	locations []string
}

func (r *recordingMetrics) RequestStarted() func(method, route string, status int) {
	return func(_, _ string, status int) { r.requests = append(r.requests, status) }
}

func (r *recordingMetrics) ObserveLocation(outcome string) {
	r.locations = append(r.locations, outcome)
}

type fixture struct {
	verifier  *MockVerifier
	place     *MockPlaceOrder
	accept    *MockAcceptOrder
	finalize  *MockFinalize
	position  *MockReportPosition
	available *MockAvailableOrders
	stats     *MockStatistics
	metrics   *recordingMetrics
	handler   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		verifier:  &MockVerifier{},
		place:     &MockPlaceOrder{},
		accept:    &MockAcceptOrder{},
		finalize:  &MockFinalize{},
		position:  &MockReportPosition{},
		available: &MockAvailableOrders{},
		stats:     &MockStatistics{},
		metrics:   &recordingMetrics{},
	}
	server := httpadapter.NewServer(httpadapter.Handlers{
		PlaceOrder:           f.place,
		AcceptOrder:          f.accept,
		FinalizeDelivery:     f.finalize,
		ReportDriverPosition: f.position,
		AvailableOrders:      f.available,
		OrderStatistics:      f.stats,
	}, f.verifier, f.metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.handler = httpadapter.NewEcho(server, http.NotFoundHandler())
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) signedIn(token string, role identity.Role) identity.Actor {
	actor, err := identity.NewActor(kernel.NewUUID(), role)
	if err != nil {
		panic(err)
	}
	f.verifier.On("Verify", mock.Anything, token).Return(actor, nil)
	return actor
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.ErrorResponse {
	t.Helper()
	var body httpadapter.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func placedOrder(t *testing.T, customer kernel.UUID) *order.Order {
	t.Helper()
	burger, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	fries, err := kernel.MoneyFromString("5.00")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), customer, kernel.NewUUID(), "Main St 1", time.Now(), []order.Line{
		{ProductID: kernel.NewUUID(), ProductName: "Burger", Quantity: 2, UnitPrice: burger},
		{ProductID: kernel.NewUUID(), ProductName: "Fries", Quantity: 1, UnitPrice: fries},
	})
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture()
	customer := f.signedIn("customer-token", identity.RoleCustomer)
	placed := placedOrder(t, customer.ID())
	restaurantID := kernel.NewUUID()
	productID := kernel.NewUUID()

	f.place.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PlaceOrderCommand) bool {
		return cmd.Actor().ID().IsEqual(customer.ID()) &&
			cmd.RestaurantID().IsEqual(restaurantID) &&
			len(cmd.Items()) == 1 && cmd.Items()[0].Quantity == 2 &&
			cmd.CheckoutLocation() != nil
	})).Return(placed, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders", "customer-token", `{
		"restaurant_id": "`+restaurantID.String()+`",
		"address": "Main St 1",
		"items": [{"product_id": "`+productID.String()+`", "quantity": 2}],
		"location": {"lat": 52.52, "lng": 13.40}
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body httpadapter.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "25.00", body.Total)
	assert.Equal(t, "pending", body.Status)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "20.00", body.Items[0].Subtotal)
	assert.Nil(t, body.DriverID)
	require.NotNil(t, body.Location)
	assert.InDelta(t, 52.52, body.Location.Latitude, 1e-9)
	f.place.AssertExpectations(t)
	assert.Equal(t, []int{http.StatusCreated}, f.metrics.requests)
}

func TestPlaceOrder_InvalidBody(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"restaurant_id":`},
		{"no items", `{"restaurant_id":"` + kernel.NewUUID().String() + `","address":"Main St 1","items":[]}`},
		{"zero quantity", `{"restaurant_id":"` + kernel.NewUUID().String() + `","address":"Main St 1",` +
			`"items":[{"product_id":"` + kernel.NewUUID().String() + `","quantity":0}]}`},
		{"latitude out of range", `{"restaurant_id":"` + kernel.NewUUID().String() + `","address":"Main St 1",` +
			`"items":[{"product_id":"` + kernel.NewUUID().String() + `","quantity":1}],"location":{"lat":91,"lng":0}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.signedIn("customer-token", identity.RoleCustomer)

			rec := f.do(http.MethodPost, "/api/v1/orders", "customer-token", tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "validation", decodeError(t, rec).Kind)
			f.place.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthentication(t *testing.T) {
	t.Run("anonymous request reaches the handler which rejects it", func(t *testing.T) {
		f := newFixture()
		f.finalize.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.FinalizeDeliveryCommand) bool {
			return !cmd.Actor().IsAuthenticated()
		})).Return(nil, errs.NewAuthenticationRequiredError("finalize delivery")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/finalize", "", "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "authentication", body.Kind)
		assert.Equal(t, http.StatusUnauthorized, body.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture()
		f.verifier.On("Verify", mock.Anything, "expired").
			Return(identity.Anonymous(), errs.NewAuthenticationRequiredError("verify session")).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/available", "expired", "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		f.available.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("malformed header", func(t *testing.T) {
		f := newFixture()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/available", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})
}

func TestAcceptOrder(t *testing.T) {
	t.Run("claim without coordinate reports a warning", func(t *testing.T) {
		f := newFixture()
		driver := f.signedIn("driver-token", identity.RoleDriver)
		claimed := placedOrder(t, kernel.NewUUID())
		require.NoError(t, claimed.AssignDriver(driver.ID()))

		f.accept.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AcceptOrderCommand) bool {
			return cmd.OrderID().IsEqual(claimed.ID()) && cmd.DevicePosition() == nil
		})).Return(commands.AcceptOrderResult{
			Order:           claimed,
			LocationSource:  location.SourceNone,
			LocationWarning: &location.Warning{OrderID: claimed.ID(), Cause: errors.New("location permission denied")},
		}, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+claimed.ID().String()+"/accept", "driver-token", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body httpadapter.AcceptOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "in_transit", body.Order.Status)
		require.NotNil(t, body.Order.DriverID)
		assert.Equal(t, driver.ID().String(), *body.Order.DriverID)
		assert.Equal(t, "none", body.LocationSource)
		assert.Contains(t, body.LocationWarning, "permission denied")
		assert.Nil(t, body.Delivery)
		assert.Equal(t, []string{"warning"}, f.metrics.locations)
	})

	t.Run("claim with device position", func(t *testing.T) {
		f := newFixture()
		driver := f.signedIn("driver-token", identity.RoleDriver)
		claimed := placedOrder(t, kernel.NewUUID())
		require.NoError(t, claimed.AssignDriver(driver.ID()))
		loc, err := kernel.NewLocation(50.45, 30.52)
		require.NoError(t, err)
		d, err := delivery.NewDelivery(kernel.NewUUID(), claimed.ID(), loc)
		require.NoError(t, err)

		f.accept.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AcceptOrderCommand) bool {
			return cmd.DevicePosition() != nil && cmd.DevicePosition().Latitude() == 50.45
		})).Return(commands.AcceptOrderResult{Order: claimed, Delivery: d, LocationSource: location.SourceSupplied}, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+claimed.ID().String()+"/accept", "driver-token",
			`{"location":{"lat":50.45,"lng":30.52}}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body httpadapter.AcceptOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Delivery)
		assert.Equal(t, "pending", body.Delivery.Status)
		assert.Equal(t, "supplied", body.LocationSource)
		assert.Empty(t, body.LocationWarning)
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture()
		f.signedIn("driver-token", identity.RoleDriver)
		orderID := kernel.NewUUID()
		f.accept.On("Handle", mock.Anything, mock.Anything).
			Return(commands.AcceptOrderResult{}, errs.NewConflictError("order", orderID, "already claimed")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/accept", "driver-token", "")

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", decodeError(t, rec).Kind)
		assert.Equal(t, []int{http.StatusConflict}, f.metrics.requests)
		assert.Empty(t, f.metrics.locations)
	})

	t.Run("malformed order id", func(t *testing.T) {
		f := newFixture()
		f.signedIn("driver-token", identity.RoleDriver)

		rec := f.do(http.MethodPost, "/api/v1/orders/not-a-uuid/accept", "driver-token", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		f.accept.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestErrorKinds(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"forbidden", errs.NewForbiddenError("finalize delivery", "actor is not the assigned driver"), http.StatusForbidden, "forbidden"},
		{"not found", errs.NewObjectNotFoundError("order", "1"), http.StatusNotFound, "not_found"},
		{"invalid transition", errs.NewInvalidTransitionError("order", order.Pending, order.Delivered), http.StatusConflict, "conflict"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.signedIn("driver-token", identity.RoleDriver)
			f.finalize.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/finalize", "driver-token", "")

			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.kind, body.Kind)
			assert.Equal(t, tc.status, body.Code)
			assert.NotContains(t, body.Message, "pq:", "internal details stay in the log")
		})
	}
}

func TestReportDriverPosition(t *testing.T) {
	f := newFixture()
	driver := f.signedIn("driver-token", identity.RoleDriver)
	f.position.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReportDriverPositionCommand) bool {
		return cmd.Actor().ID().IsEqual(driver.ID()) && cmd.Location().Longitude() == 0
	})).Return(nil).Once()

	rec := f.do(http.MethodPut, "/api/v1/drivers/me/position", "driver-token", `{"lat":0,"lng":0}`)

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	f.position.AssertExpectations(t)

	rec = f.do(http.MethodPut, "/api/v1/drivers/me/position", "driver-token", `{"lat":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvailableOrders(t *testing.T) {
	f := newFixture()
	f.signedIn("driver-token", identity.RoleDriver)
	total, err := kernel.MoneyFromString("12.50")
	require.NoError(t, err)
	loc, err := kernel.NewLocation(1, 2)
	require.NoError(t, err)

	f.available.On("Handle", mock.Anything, mock.Anything).Return([]queries.OrderSummary{
		{ID: kernel.NewUUID(), CustomerID: kernel.NewUUID(), RestaurantID: kernel.NewUUID(), Address: "A",
			Total: total, Status: order.ReadyForPickup, CreatedAt: time.Now(), DeliveryLocation: &loc},
		{ID: kernel.NewUUID(), CustomerID: kernel.NewUUID(), RestaurantID: kernel.NewUUID(), Address: "B",
			Total: total, Status: order.Pending, CreatedAt: time.Now()},
	}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/available", "driver-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []httpadapter.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "ready_for_pickup", body[0].Status)
	require.NotNil(t, body[0].Location)
	assert.Nil(t, body[1].Location)
	assert.Empty(t, body[0].Items)
}

func TestGetOrderStatistics(t *testing.T) {
	t.Run("window is passed through", func(t *testing.T) {
		f := newFixture()
		f.signedIn("admin-token", identity.RoleAdmin)
		f.stats.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderStatisticsQuery) bool {
			return q.Window() == services.Window30Days
		})).Return(services.Summary{
			Window:            services.Window30Days,
			TotalOrders:       2,
			Revenue:           kernel.ZeroMoney(),
			AverageOrderValue: kernel.ZeroMoney(),
			ByStatus:          map[order.Status]int{order.Delivered: 2},
			DayOverDayGrowth:  100,
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/statistics?window=30", "admin-token", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body httpadapter.StatisticsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 30, body.WindowDays)
		assert.Equal(t, 2, body.ByStatus["delivered"])
		assert.InDelta(t, 100.0, body.DayOverDayGrowth, 1e-9)
	})

	t.Run("unsupported window", func(t *testing.T) {
		f := newFixture()
		f.signedIn("admin-token", identity.RoleAdmin)

		for _, window := range []string{"abc", "14"} {
			rec := f.do(http.MethodGet, "/api/v1/statistics?window="+window, "admin-token", "")
			require.Equal(t, http.StatusBadRequest, rec.Code, window)
		}
		f.stats.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/api/v1/nope", "", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Kind)
}
