package commands

import (
	"context"

	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"
)

// FinalizeDeliveryCommandHandler moves an in_transit order to delivered and marks its
// pending deliveries delivered in the same transaction.
type FinalizeDeliveryCommandHandler struct {
	uowFactory UoWFactory
	effects    Effects
}

func NewFinalizeDeliveryCommandHandler(uowFactory UoWFactory, effects Effects) FinalizeDeliveryCommandHandler {
	return FinalizeDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the finalize command. An order that is not in_transit yields
// *errs.InvalidTransitionError and a driver other than the assigned one yields
// *errs.ForbiddenError; in both cases nothing is written.
func (h FinalizeDeliveryCommandHandler) Handle(ctx context.Context, cmd FinalizeDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := cmd.Actor().Require("finalize delivery", identity.RoleDriver); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	deliveryRepo := uow.DeliveryRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	if err = o.FinalizeDelivery(cmd.Actor().ID()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, from); err != nil {
		return nil, err
	}

	deliveries, err := deliveryRepo.ListByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	for _, d := range deliveries {
		if d.Status() != delivery.Pending {
			continue
		}
		if err = d.MarkDelivered(); err != nil {
			return nil, err
		}
		if err = deliveryRepo.Update(ctx, d); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.effects.afterTransition(ctx, o, from, notification.DeliveredMessage(o.ID()))

	return o, nil
}
