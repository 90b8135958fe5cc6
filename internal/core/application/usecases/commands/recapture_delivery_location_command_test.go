package commands_test

import (
	"testing"

	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecaptureDeliveryLocationCommandHandler(t *testing.T) {
	driver := mustActor(identity.RoleDriver)
	newLoc := mustLocation(48.85, 2.35)

	t.Run("creates delivery when none exists", func(t *testing.T) {
		ctx := t.Context()
		store := newMemoryStore()
		o := inTransitOrder(driver.ID())
		require.NoError(t, memoryOrderRepository{s: store}.Add(ctx, o))

		notifier := &MockNotifier{}
		notifier.On("DispatchAsync", ctx, notification.LocationCapturedMessage(o.ID())).Once()
		effects := quietEffects()
		effects.Notifier = notifier

		cmd, err := commands.NewRecaptureDeliveryLocationCommand(driver, o.ID(), newLoc)
		require.NoError(t, err)

		d, err := commands.NewRecaptureDeliveryLocationCommandHandler(memoryUoWFactory{s: store}, effects).
			Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, newLoc, d.Location())
		records := store.deliveriesOf(o.ID())
		require.Len(t, records, 1)
		assert.Equal(t, delivery.Pending, records[0].status)
		notifier.AssertExpectations(t)
	})

	t.Run("overwrites pending delivery", func(t *testing.T) {
		ctx := t.Context()
		store := newMemoryStore()
		o := inTransitOrder(driver.ID())
		require.NoError(t, memoryOrderRepository{s: store}.Add(ctx, o))
		existing, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), mustLocation(1, 1))
		require.NoError(t, err)
		require.NoError(t, memoryDeliveryRepository{s: store}.Add(ctx, existing))

		cmd, err := commands.NewRecaptureDeliveryLocationCommand(driver, o.ID(), newLoc)
		require.NoError(t, err)

		d, err := commands.NewRecaptureDeliveryLocationCommandHandler(memoryUoWFactory{s: store}, quietEffects()).
			Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, existing.ID(), d.ID())
		records := store.deliveriesOf(o.ID())
		require.Len(t, records, 1)
		assert.Equal(t, newLoc, records[0].location)
	})

	t.Run("delivered delivery is never modified", func(t *testing.T) {
		ctx := t.Context()
		store := newMemoryStore()
		o := inTransitOrder(driver.ID())
		require.NoError(t, memoryOrderRepository{s: store}.Add(ctx, o))
		original := mustLocation(1, 1)
		done, err := delivery.RestoreDelivery(kernel.NewUUID(), o.ID(), original, delivery.Delivered)
		require.NoError(t, err)
		require.NoError(t, memoryDeliveryRepository{s: store}.Add(ctx, done))

		cmd, err := commands.NewRecaptureDeliveryLocationCommand(driver, o.ID(), newLoc)
		require.NoError(t, err)

		_, err = commands.NewRecaptureDeliveryLocationCommandHandler(memoryUoWFactory{s: store}, quietEffects()).
			Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, original, store.deliveriesOf(o.ID())[0].location)
	})

	t.Run("delivered order without delivery is rejected", func(t *testing.T) {
		ctx := t.Context()
		store := newMemoryStore()
		o := inTransitOrder(driver.ID())
		require.NoError(t, o.FinalizeDelivery(driver.ID()))
		require.NoError(t, memoryOrderRepository{s: store}.Add(ctx, o))

		notifier := &MockNotifier{}
		effects := quietEffects()
		effects.Notifier = notifier

		cmd, err := commands.NewRecaptureDeliveryLocationCommand(driver, o.ID(), newLoc)
		require.NoError(t, err)

		_, err = commands.NewRecaptureDeliveryLocationCommandHandler(memoryUoWFactory{s: store}, effects).
			Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, store.deliveriesOf(o.ID()))
		stored, _ := store.order(o.ID())
		assert.Equal(t, order.Delivered, stored.Status)
		notifier.AssertNotCalled(t, "DispatchAsync", mock.Anything, mock.Anything)
	})

	t.Run("other driver is forbidden", func(t *testing.T) {
		ctx := t.Context()
		store := newMemoryStore()
		o := inTransitOrder(kernel.NewUUID())
		require.NoError(t, memoryOrderRepository{s: store}.Add(ctx, o))

		notifier := &MockNotifier{}
		effects := quietEffects()
		effects.Notifier = notifier

		cmd, err := commands.NewRecaptureDeliveryLocationCommand(driver, o.ID(), newLoc)
		require.NoError(t, err)

		_, err = commands.NewRecaptureDeliveryLocationCommandHandler(memoryUoWFactory{s: store}, effects).
			Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Empty(t, store.deliveriesOf(o.ID()))
		notifier.AssertNotCalled(t, "DispatchAsync", mock.Anything, mock.Anything)
	})
}
