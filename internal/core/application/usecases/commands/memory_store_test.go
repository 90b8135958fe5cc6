package commands_test

import (
	"context"
	"sync"
	"time"

	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

func timeNow() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

type deliveryRecord struct {
	id       kernel.UUID
	orderID  kernel.UUID
	location kernel.Location
	status   delivery.Status
}

// memoryStore keeps committed rows as plain values so that every Get restores a
// fresh aggregate, the way a database read would. Writes are applied immediately and
// the conditional updates run under one lock.
type memoryStore struct {
	mu         sync.Mutex
	orders     map[kernel.UUID]order.RestoreParams
	deliveries map[kernel.UUID][]deliveryRecord
	products   map[kernel.UUID]*catalog.Product
}

func newMemoryStore(products ...*catalog.Product) *memoryStore {
	s := &memoryStore{
		orders:     make(map[kernel.UUID]order.RestoreParams),
		deliveries: make(map[kernel.UUID][]deliveryRecord),
		products:   make(map[kernel.UUID]*catalog.Product),
	}
	for _, p := range products {
		s.products[p.ID()] = p
	}
	return s
}

func paramsOf(o *order.Order) order.RestoreParams {
	var driverID *kernel.UUID
	if d := o.Driver(); d != nil {
		id := *d
		driverID = &id
	}
	return order.RestoreParams{
		ID:           o.ID(),
		CustomerID:   o.Customer(),
		RestaurantID: o.Restaurant(),
		DriverID:     driverID,
		Total:        o.Total(),
		CreatedAt:    o.CreatedAt(),
		Address:      o.Address(),
		Status:       o.Status(),
		Items:        o.Items(),
	}
}

func (s *memoryStore) order(id kernel.UUID) (order.RestoreParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.orders[id]
	return p, ok
}

func (s *memoryStore) deliveriesOf(orderID kernel.UUID) []deliveryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]deliveryRecord(nil), s.deliveries[orderID]...)
}

type memoryOrderRepository struct{ s *memoryStore }

func (r memoryOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID()]; ok {
		return errs.NewConflictError("order", o.ID().String(), "already exists")
	}
	r.s.orders[o.ID()] = paramsOf(o)
	return nil
}

func (r memoryOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	p, ok := r.s.orders[id]
	r.s.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(p)
}

func (r memoryOrderRepository) AssignDriver(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID()]
	if !ok || stored.DriverID != nil || !stored.Status.IsClaimable() {
		return errs.NewConflictError("order", o.ID().String(), "already claimed or no longer claimable")
	}
	r.s.orders[o.ID()] = paramsOf(o)
	return nil
}

func (r memoryOrderRepository) UpdateStatus(_ context.Context, o *order.Order, from order.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID()]
	if !ok || stored.Status != from {
		return errs.NewConflictError("order", o.ID().String(), "status changed concurrently")
	}
	r.s.orders[o.ID()] = paramsOf(o)
	return nil
}

type memoryDeliveryRepository struct{ s *memoryStore }

func (r memoryDeliveryRepository) Add(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deliveries[d.OrderID()] = append(r.s.deliveries[d.OrderID()], deliveryRecord{
		id: d.ID(), orderID: d.OrderID(), location: d.Location(), status: d.Status(),
	})
	return nil
}

func (r memoryDeliveryRepository) Update(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := r.s.deliveries[d.OrderID()]
	for i := range records {
		if records[i].id == d.ID() {
			records[i].location = d.Location()
			records[i].status = d.Status()
			return nil
		}
	}
	return errs.NewObjectNotFoundError("delivery", d.ID().String())
}

func (r memoryDeliveryRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*delivery.Delivery, 0, len(r.s.deliveries[orderID]))
	for _, rec := range r.s.deliveries[orderID] {
		d, err := delivery.RestoreDelivery(rec.id, rec.orderID, rec.location, rec.status)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

type memoryProductRepository struct{ s *memoryStore }

func (r memoryProductRepository) GetMany(_ context.Context, ids []kernel.UUID) ([]*catalog.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

type memoryUoW struct{ s *memoryStore }

func (u memoryUoW) Begin(context.Context) error    { return nil }
func (u memoryUoW) Commit(context.Context) error   { return nil }
func (u memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrderRepository{s: u.s}
}

func (u memoryUoW) DeliveryRepository() ports.DeliveryRepository {
	return memoryDeliveryRepository{s: u.s}
}

func (u memoryUoW) ProductRepository() ports.ProductRepository {
	return memoryProductRepository{s: u.s}
}

type memoryUoWFactory struct{ s *memoryStore }

func (f memoryUoWFactory) Create() commands.UoW { return memoryUoW(f) }

type memoryOrderUoWFactory struct{ s *memoryStore }

func (f memoryOrderUoWFactory) Create() commands.OrderUoW { return memoryUoW(f) }

type memoryDeliveryUoWFactory struct{ s *memoryStore }

func (f memoryDeliveryUoWFactory) Create() location.DeliveryUoW { return memoryUoW(f) }
