package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/application/location"
	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"
)

// AcceptOrderResult reports the claimed order and the state of its delivery coordinate.
// LocationWarning is set when the order has no coordinate; the claim still succeeded.
type AcceptOrderResult struct {
	Order           *order.Order
	Delivery        *delivery.Delivery
	LocationSource  location.Source
	LocationWarning error
}

// AcceptOrderCommandHandler assigns the calling driver to an order.
//
// The claim is decided by the store's conditional update, so of two drivers racing for
// the same order exactly one succeeds and the other gets a conflict. After the commit
// the handler resolves the delivery location, notifies the channels and publishes an
// event; none of these can undo or fail the claim.
type AcceptOrderCommandHandler struct {
	uowFactory UoWFactory
	resolver   LocationResolver
	effects    Effects
}

func NewAcceptOrderCommandHandler(
	uowFactory UoWFactory,
	resolver LocationResolver,
	effects Effects,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		effects:    effects,
	}
}

// Handle processes the accept command.
// Returns *errs.ConflictError when the order already has a driver and
// *errs.InvalidTransitionError when it is no longer claimable.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) (AcceptOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptOrderResult{}, err
	}

	if err := cmd.Actor().Require("accept order", identity.RoleDriver); err != nil {
		return AcceptOrderResult{}, err
	}

	claimed, from, err := h.claim(ctx, cmd)
	if err != nil {
		return AcceptOrderResult{}, err
	}

	result := AcceptOrderResult{Order: claimed, LocationSource: location.SourceNone}
	h.resolveLocation(ctx, cmd, &result)

	h.effects.afterTransition(ctx, claimed, from, notification.InTransitMessage(claimed.ID()))

	return result, nil
}

func (h AcceptOrderCommandHandler) claim(ctx context.Context, cmd AcceptOrderCommand) (*order.Order, order.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.Unknown, err
	}

	from := o.Status()
	if err = o.AssignDriver(cmd.Actor().ID()); err != nil {
		return nil, order.Unknown, err
	}

	if err = orderRepo.AssignDriver(ctx, o); err != nil {
		return nil, order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, order.Unknown, err
	}

	return o, from, nil
}

func (h AcceptOrderCommandHandler) resolveLocation(ctx context.Context, cmd AcceptOrderCommand, result *AcceptOrderResult) {
	if h.resolver == nil {
		return
	}

	res, err := h.resolver.Resolve(ctx, cmd.OrderID(), cmd.Actor().ID(), cmd.DevicePosition())
	if err != nil {
		h.effects.logger().WarnContext(ctx, "delivery location resolution failed",
			slog.String("order_id", cmd.OrderID().String()),
			slog.Any("error", err),
		)
		result.LocationWarning = &location.Warning{OrderID: cmd.OrderID(), Cause: err}
		return
	}

	result.Delivery = res.Delivery
	result.LocationSource = res.Source
	if res.Warning != nil {
		result.LocationWarning = res.Warning
	}
}
