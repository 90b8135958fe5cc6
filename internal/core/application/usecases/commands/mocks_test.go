package commands_test

import (
	"context"

	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignDriver(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order, from order.Status) error {
	args := m.Called(ctx, o, from)
	return args.Error(0)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) DispatchAsync(ctx context.Context, message string) <-chan notification.DispatchReport {
	m.Called(ctx, message)
	done := make(chan notification.DispatchReport, 1)
	close(done)
	return done
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, event ports.OrderStatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockLocationResolver struct{ mock.Mock }

func (m *MockLocationResolver) Resolve(
	ctx context.Context,
	orderID, driverID kernel.UUID,
	supplied *kernel.Location,
) (location.Result, error) {
	args := m.Called(ctx, orderID, driverID, supplied)
	return args.Get(0).(location.Result), args.Error(1)
}

type MockPositionStore struct{ mock.Mock }

func (m *MockPositionStore) SavePosition(ctx context.Context, driverID kernel.UUID, loc kernel.Location) error {
	args := m.Called(ctx, driverID, loc)
	return args.Error(0)
}

func mustActor(role identity.Role) identity.Actor {
	actor, err := identity.NewActor(kernel.NewUUID(), role)
	if err != nil {
		panic(err)
	}
	return actor
}

func mustMoney(s string) kernel.Money {
	m, err := kernel.MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func mustLocation(lat, lng float64) kernel.Location {
	loc, err := kernel.NewLocation(lat, lng)
	if err != nil {
		panic(err)
	}
	return loc
}

// pendingOrder returns a freshly placed order owned by customerID.
func pendingOrder(customerID kernel.UUID) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), customerID, kernel.NewUUID(), "Main St 1", timeNow(),
		[]order.Line{{ProductID: kernel.NewUUID(), ProductName: "Burger", Quantity: 1, UnitPrice: mustMoney("9.90")}})
	if err != nil {
		panic(err)
	}
	return o
}

// inTransitOrder returns an order already claimed by driverID.
func inTransitOrder(driverID kernel.UUID) *order.Order {
	o := pendingOrder(kernel.NewUUID())
	if err := o.AssignDriver(driverID); err != nil {
		panic(err)
	}
	return o
}
