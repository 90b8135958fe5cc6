package commands

import (
	"context"

	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

type RecaptureDeliveryLocationCommandHandler struct {
	uowFactory UoWFactory
	effects    Effects
}

func NewRecaptureDeliveryLocationCommandHandler(
	uowFactory UoWFactory,
	effects Effects,
) RecaptureDeliveryLocationCommandHandler {
	return RecaptureDeliveryLocationCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle overwrites the pending delivery coordinate of an in-transit order assigned to
// the actor. Delivered orders and deliveries are never modified.
func (h RecaptureDeliveryLocationCommandHandler) Handle(
	ctx context.Context,
	cmd RecaptureDeliveryLocationCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := cmd.Actor().Require("recapture delivery location", identity.RoleDriver); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if !o.IsAssignedTo(cmd.Actor().ID()) {
		return nil, errs.NewForbiddenError("recapture delivery location", "actor is not the assigned driver")
	}

	if o.Status() != order.InTransit {
		return nil, errs.NewInvalidTransitionError("order", o.Status(), order.InTransit)
	}

	deliveryRepo := uow.DeliveryRepository()
	deliveries, err := deliveryRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	var d *delivery.Delivery
	if len(deliveries) == 0 {
		if d, err = delivery.NewDelivery(kernel.NewUUID(), o.ID(), cmd.Location()); err != nil {
			return nil, err
		}
		err = deliveryRepo.Add(ctx, d)
	} else {
		d = deliveries[0]
		if err = d.Recapture(cmd.Location()); err != nil {
			return nil, err
		}
		err = deliveryRepo.Update(ctx, d)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if h.effects.Notifier != nil {
		h.effects.Notifier.DispatchAsync(ctx, notification.LocationCapturedMessage(o.ID()))
	}

	return d, nil
}
