// Package commands contains the order lifecycle operations that modify system state.
// Every command follows the same pattern: constructor validation, an explicit actor
// check, a unit of work around the state change, and best-effort side effects that
// run only after the commit.
package commands

import (
	"context"

	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides access to delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// ProductRepoFactory provides access to product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// OrderUoW manages transactions for order-only operations such as cancellation
	// and kitchen progress.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions that touch orders, their deliveries and the catalog.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   deliveryRepo := uow.DeliveryRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		ProductRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Collaborators invoked after a successful commit.
type (
	// Notifier is satisfied by *notification.Dispatcher.
	Notifier interface {
		DispatchAsync(ctx context.Context, message string) <-chan notification.DispatchReport
	}

	// LocationResolver is satisfied by *location.Resolver.
	LocationResolver interface {
		Resolve(ctx context.Context, orderID, driverID kernel.UUID, supplied *kernel.Location) (location.Result, error)
	}
)
