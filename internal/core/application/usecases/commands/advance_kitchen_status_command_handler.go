package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"
)

type AdvanceKitchenStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    Effects
}

func NewAdvanceKitchenStatusCommandHandler(uowFactory OrderUoWFactory, effects Effects) AdvanceKitchenStatusCommandHandler {
	return AdvanceKitchenStatusCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle applies the kitchen transition. A driver claim that lands first wins; the
// conditional status update then reports a conflict.
func (h AdvanceKitchenStatusCommandHandler) Handle(
	ctx context.Context,
	cmd AdvanceKitchenStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := cmd.Actor().Require("advance kitchen status", identity.RoleAdmin); err != nil {
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

	from := o.Status()
	if err = o.AdvanceKitchen(cmd.Target()); err != nil {
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
