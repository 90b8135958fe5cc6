package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery records.
type DeliveryRepository interface {
	// Add persists a new delivery.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists the coordinate and status of an existing delivery.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// ListByOrder returns every delivery of an order, oldest first. An order without
	// deliveries yields an empty slice and no error.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Delivery, error)
}
