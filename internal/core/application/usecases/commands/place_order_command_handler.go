package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// PlaceOrderCommandHandler creates an order with its line items, and the checkout
// delivery coordinate when one was supplied, in a single transaction. Either all of
// them are stored or none.
type PlaceOrderCommandHandler struct {
	uowFactory UoWFactory
	effects    Effects
}

func NewPlaceOrderCommandHandler(uowFactory UoWFactory, effects Effects) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle snapshots product names and prices, computes the total and persists the
// order in pending status.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := cmd.Actor().Require("place order", identity.RoleCustomer); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	products, err := h.loadProducts(ctx, uow, cmd)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(cmd.Items()))
	for _, item := range cmd.Items() {
		p := products[item.ProductID]
		lines = append(lines, order.Line{
			ProductID:   p.ID(),
			ProductName: p.Name(),
			Quantity:    item.Quantity,
			UnitPrice:   p.Price(),
		})
	}

	placed, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().ID(),
		cmd.RestaurantID(),
		cmd.Address(),
		h.effects.now(),
		lines,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	if loc := cmd.CheckoutLocation(); loc != nil {
		d, deliveryErr := delivery.NewDelivery(kernel.NewUUID(), placed.ID(), *loc)
		if deliveryErr != nil {
			return nil, deliveryErr
		}
		if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.effects.logger().InfoContext(ctx, "order placed",
		slog.String("order_id", placed.ID().String()),
		slog.String("total", placed.Total().String()),
		slog.Int("items", len(lines)),
		slog.Bool("checkout_location", cmd.CheckoutLocation() != nil),
	)
	h.effects.afterTransition(ctx, placed, order.Unknown, "")

	return placed, nil
}

func (h PlaceOrderCommandHandler) loadProducts(
	ctx context.Context,
	uow UoW,
	cmd PlaceOrderCommand,
) (map[kernel.UUID]*catalog.Product, error) {
	ids := make([]kernel.UUID, 0, len(cmd.Items()))
	seen := make(map[kernel.UUID]struct{}, len(cmd.Items()))
	for _, item := range cmd.Items() {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	found, err := uow.ProductRepository().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	products := make(map[kernel.UUID]*catalog.Product, len(found))
	for _, p := range found {
		if err = p.EnsureOrderable(cmd.RestaurantID()); err != nil {
			return nil, err
		}
		products[p.ID()] = p
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
	}

	return products, nil
}
