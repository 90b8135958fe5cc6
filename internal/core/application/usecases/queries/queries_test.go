package queries_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var summaryColumns = []string{
	"id", "customer_id", "restaurant_id", "driver_id", "address", "total", "status", "created_at", "latitude", "longitude",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

func actor(t *testing.T, role identity.Role) identity.Actor {
	t.Helper()
	a, err := identity.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func TestGetAvailableOrdersQueryHandler(t *testing.T) {
	db, sqlMock := newMockDB(t)
	handler := queries.NewGetAvailableOrdersQueryHandler(db)

	withLocation := kernel.NewUUID()
	withoutLocation := kernel.NewUUID()
	createdAt := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	sqlMock.ExpectQuery(regexp.QuoteMeta("WHERE o.driver_id IS NULL AND o.status IN ($1,$2,$3)")).
		WithArgs("pending", "preparing", "ready_for_pickup").
		WillReturnRows(sqlmock.NewRows(summaryColumns).
			AddRow(withLocation.String(), kernel.NewUUID().String(), kernel.NewUUID().String(), nil,
				"Main St 1", "25.00", "pending", createdAt, 52.52, 13.40).
			AddRow(withoutLocation.String(), kernel.NewUUID().String(), kernel.NewUUID().String(), nil,
				"Side St 2", "9.90", "ready_for_pickup", createdAt.Add(-time.Hour), nil, nil))

	result, err := handler.Handle(t.Context(), queries.NewGetAvailableOrdersQuery(actor(t, identity.RoleDriver)))

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, withLocation, result[0].ID)
	assert.Equal(t, "25.00", result[0].Total.String())
	assert.Equal(t, order.Pending, result[0].Status)
	require.NotNil(t, result[0].DeliveryLocation)
	assert.InDelta(t, 52.52, result[0].DeliveryLocation.Latitude(), 1e-9)
	assert.Nil(t, result[0].DriverID)

	assert.Equal(t, withoutLocation, result[1].ID)
	assert.Equal(t, order.ReadyForPickup, result[1].Status)
	assert.Nil(t, result[1].DeliveryLocation)

	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetAvailableOrdersQueryHandler_RejectsCorruptRows(t *testing.T) {
	db, sqlMock := newMockDB(t)

	sqlMock.ExpectQuery("FROM orders o").
		WillReturnRows(sqlmock.NewRows(summaryColumns).
			AddRow(kernel.NewUUID().String(), kernel.NewUUID().String(), kernel.NewUUID().String(), nil,
				"Main St 1", "25.00", "lost_in_space", time.Now(), nil, nil))

	_, err := queries.NewGetAvailableOrdersQueryHandler(db).
		Handle(t.Context(), queries.NewGetAvailableOrdersQuery(actor(t, identity.RoleDriver)))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestGetAvailableOrdersQueryHandler_CustomersAreForbidden(t *testing.T) {
	db, sqlMock := newMockDB(t)

	_, err := queries.NewGetAvailableOrdersQueryHandler(db).
		Handle(t.Context(), queries.NewGetAvailableOrdersQuery(actor(t, identity.RoleCustomer)))

	require.ErrorIs(t, err, errs.ErrForbidden)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetDriverActiveOrdersQueryHandler(t *testing.T) {
	db, sqlMock := newMockDB(t)
	driver := actor(t, identity.RoleDriver)
	orderID := kernel.NewUUID()

	sqlMock.ExpectQuery(regexp.QuoteMeta("WHERE o.driver_id = $1 AND o.status = $2")).
		WithArgs(driver.ID().String(), "in_transit").
		WillReturnRows(sqlmock.NewRows(summaryColumns).
			AddRow(orderID.String(), kernel.NewUUID().String(), kernel.NewUUID().String(), driver.ID().String(),
				"Main St 1", "12.50", "in_transit", time.Now(), nil, nil))

	result, err := queries.NewGetDriverActiveOrdersQueryHandler(db).
		Handle(t.Context(), queries.NewGetDriverActiveOrdersQuery(driver))

	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].DriverID)
	assert.Equal(t, driver.ID(), *result[0].DriverID)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestGetCustomerOrdersQueryHandler(t *testing.T) {
	db, sqlMock := newMockDB(t)
	customer := actor(t, identity.RoleCustomer)

	sqlMock.ExpectQuery(regexp.QuoteMeta("WHERE o.customer_id = $1")).
		WithArgs(customer.ID().String()).
		WillReturnRows(sqlmock.NewRows(summaryColumns))

	result, err := queries.NewGetCustomerOrdersQueryHandler(db).
		Handle(t.Context(), queries.NewGetCustomerOrdersQuery(customer))

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	require.NoError(t, sqlMock.ExpectationsWereMet())

	_, err = queries.NewGetCustomerOrdersQueryHandler(db).
		Handle(t.Context(), queries.NewGetCustomerOrdersQuery(identity.Anonymous()))
	require.ErrorIs(t, err, errs.ErrAuthenticationRequired)
}

func TestGetOrderItemsQueryHandler(t *testing.T) {
	customer := actor(t, identity.RoleCustomer)
	orderID := kernel.NewUUID()
	itemID, productID := kernel.NewUUID(), kernel.NewUUID()

	accessRow := func(customerID kernel.UUID, driverID any, status string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"customer_id", "driver_id", "status"}).
			AddRow(customerID.String(), driverID, status)
	}

	t.Run("owner reads items", func(t *testing.T) {
		db, sqlMock := newMockDB(t)
		sqlMock.ExpectQuery("FROM orders").WithArgs(orderID.String()).
			WillReturnRows(accessRow(customer.ID(), nil, "pending"))
		sqlMock.ExpectQuery("FROM order_items").WithArgs(orderID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "product_name", "quantity", "unit_price", "subtotal"}).
				AddRow(itemID.String(), productID.String(), "Burger", 2, "10.00", "20.00"))

		query, err := queries.NewGetOrderItemsQuery(customer, orderID)
		require.NoError(t, err)

		items, err := queries.NewGetOrderItemsQueryHandler(db).Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, itemID, items[0].ID)
		assert.Equal(t, "Burger", items[0].ProductName)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, "20.00", items[0].Subtotal.String())
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		db, sqlMock := newMockDB(t)
		sqlMock.ExpectQuery("FROM orders").WithArgs(orderID.String()).
			WillReturnRows(accessRow(kernel.NewUUID(), nil, "pending"))

		query, err := queries.NewGetOrderItemsQuery(customer, orderID)
		require.NoError(t, err)

		_, err = queries.NewGetOrderItemsQueryHandler(db).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("driver of another order is forbidden", func(t *testing.T) {
		db, sqlMock := newMockDB(t)
		sqlMock.ExpectQuery("FROM orders").WithArgs(orderID.String()).
			WillReturnRows(accessRow(customer.ID(), kernel.NewUUID().String(), "in_transit"))

		query, err := queries.NewGetOrderItemsQuery(actor(t, identity.RoleDriver), orderID)
		require.NoError(t, err)

		_, err = queries.NewGetOrderItemsQueryHandler(db).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown order", func(t *testing.T) {
		db, sqlMock := newMockDB(t)
		sqlMock.ExpectQuery("FROM orders").WithArgs(orderID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"customer_id", "driver_id", "status"}))

		query, err := queries.NewGetOrderItemsQuery(customer, orderID)
		require.NoError(t, err)

		_, err = queries.NewGetOrderItemsQueryHandler(db).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

type MockOrderHistoryReader struct{ mock.Mock }

func (m *MockOrderHistoryReader) ListCreatedSince(ctx context.Context, since time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func TestGetOrderStatisticsQueryHandler(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	admin := actor(t, identity.RoleAdmin)

	price, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	placed, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "Main St 1",
		now.Add(-time.Hour), []order.Line{{ProductID: kernel.NewUUID(), ProductName: "Burger", Quantity: 2, UnitPrice: price}})
	require.NoError(t, err)

	testCases := []struct {
		name      string
		window    int
		wantSince time.Time
	}{
		{"whole history", 0, time.Time{}},
		{"short window reads two weeks for growth", 7, now.Add(-14 * 24 * time.Hour)},
		{"long window", 90, now.Add(-90 * 24 * time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			history := &MockOrderHistoryReader{}
			history.On("ListCreatedSince", mock.Anything, tc.wantSince).Return([]*order.Order{placed}, nil).Once()

			query, err := queries.NewGetOrderStatisticsQuery(admin, tc.window)
			require.NoError(t, err)

			summary, err := queries.NewGetOrderStatisticsQueryHandler(history, clock).Handle(t.Context(), query)

			require.NoError(t, err)
			assert.Equal(t, services.Window(tc.window), summary.Window)
			assert.Equal(t, 1, summary.TotalOrders)
			assert.Equal(t, "20.00", summary.Revenue.String())
			assert.InDelta(t, 100.0, summary.DayOverDayGrowth, 1e-9)
			history.AssertExpectations(t)
		})
	}

	t.Run("invalid window", func(t *testing.T) {
		_, err := queries.NewGetOrderStatisticsQuery(admin, 14)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("admins only", func(t *testing.T) {
		history := &MockOrderHistoryReader{}
		query, err := queries.NewGetOrderStatisticsQuery(actor(t, identity.RoleDriver), 30)
		require.NoError(t, err)

		_, err = queries.NewGetOrderStatisticsQueryHandler(history, clock).Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrForbidden)
		history.AssertNotCalled(t, "ListCreatedSince", mock.Anything, mock.Anything)
	})
}
