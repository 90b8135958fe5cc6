package commands

import (
	"errors"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// MaxItemsPerOrder bounds the number of line items of a single order.
const MaxItemsPerOrder = 100

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	ErrItemsAreRequired  = errs.NewValueIsRequiredError("items")
)

// PlaceOrderItem is one requested product and quantity. Prices come from the catalog.
type PlaceOrderItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// PlaceOrderCommand represents a customer placing an order at a restaurant.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(actor, kernel.NewUUID(), restaurantID, "Main St 1",
//	    []PlaceOrderItem{{ProductID: burgerID, Quantity: 2}}, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	actor            identity.Actor
	orderID          kernel.UUID
	restaurantID     kernel.UUID
	address          string
	items            []PlaceOrderItem
	checkoutLocation *kernel.Location

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the request shape. checkoutLocation is optional and
// becomes the order's delivery coordinate when present.
func NewPlaceOrderCommand(
	actor identity.Actor,
	orderID, restaurantID kernel.UUID,
	address string,
	items []PlaceOrderItem,
	checkoutLocation *kernel.Location,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setAddress(address),
		cmd.setItems(items),
		cmd.setCheckoutLocation(checkoutLocation),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) Actor() identity.Actor     { return c.actor }
func (c PlaceOrderCommand) OrderID() kernel.UUID      { return c.orderID }
func (c PlaceOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }
func (c PlaceOrderCommand) Address() string           { return c.address }
func (c PlaceOrderCommand) Items() []PlaceOrderItem   { return append([]PlaceOrderItem(nil), c.items...) }
func (c PlaceOrderCommand) CheckoutLocation() *kernel.Location {
	return c.checkoutLocation
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *PlaceOrderCommand) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrAddressIsRequired
	}
	c.address = address
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	if len(items) > MaxItemsPerOrder {
		return errs.NewValueIsOutOfRangeError("items", len(items), 1, MaxItemsPerOrder)
	}

	itemErrs := make([]error, 0)
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: %w", i, errs.NewValueIsRequiredErrorWithCause("product", err)))
		}
		if item.Quantity <= 0 {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: %w", i,
				errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", item.Quantity))))
		}
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	c.items = append([]PlaceOrderItem(nil), items...)
	return nil
}

func (c *PlaceOrderCommand) setCheckoutLocation(loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	copied := *loc
	c.checkoutLocation = &copied
	return nil
}
