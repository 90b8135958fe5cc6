// Package ports defines the contracts between the order workflow and infrastructure:
// persistence, the driver position sensor, notification relays, event publishing and
// identity verification. Adapters under internal/adapters implement them.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Status changes are conditional updates so that the store, not the caller's snapshot,
// decides concurrent races.
type OrderRepository interface {
	// Add persists a new order together with all of its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its line items.
	// Returns *errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AssignDriver stores the driver and the in_transit status of aggregate, but only if
	// the stored row has no driver and a claimable status. When another driver won the
	// race it returns *errs.ConflictError and nothing is written.
	//
	// Example:
	//   if err := o.AssignDriver(actor.ID()); err != nil {
	//       return err
	//   }
	//   if err := repo.AssignDriver(ctx, o); errors.Is(err, errs.ErrConflict) {
	//       // somebody else claimed it first
	//   }
	AssignDriver(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus stores the status of aggregate if the stored status still equals from.
	// Returns *errs.ConflictError when the row moved on in the meantime.
	UpdateStatus(ctx context.Context, aggregate *order.Order, from order.Status) error
}
