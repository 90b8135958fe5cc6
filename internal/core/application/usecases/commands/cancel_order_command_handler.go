package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    Effects
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, effects Effects) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle cancels a pending, preparing or ready_for_pickup order.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if err := actor.Require("cancel order", identity.RoleCustomer, identity.RoleAdmin); err != nil {
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

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if actor.Role() == identity.RoleCustomer && !o.IsOwnedBy(actor.ID()) {
		return nil, errs.NewForbiddenError("cancel order", "order belongs to another customer")
	}

	from := o.Status()
	if err = o.Cancel(); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, from); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.effects.afterTransition(ctx, o, from, "")

	return o, nil
}
