package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderStatusChanged is emitted after a committed order transition.
type OrderStatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	DriverID   *kernel.UUID
	From       order.Status
	To         order.Status
	OccurredAt time.Time
}

// OrderEventPublisher delivers order events to downstream consumers, best effort.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event OrderStatusChanged) error
}
