package commands

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrAdvanceKitchenStatusCommandIsNotConstructed = errors.New(
	"AdvanceKitchenStatusCommand must be created via NewAdvanceKitchenStatusCommand constructor",
)

// AdvanceKitchenStatusCommand records restaurant progress on an order:
// pending to preparing, or preparing to ready_for_pickup.
type AdvanceKitchenStatusCommand struct { //nolint:recvcheck //using for validation
	actor   identity.Actor
	orderID kernel.UUID
	target  order.Status

	guard guard.ConstructorGuard
}

func NewAdvanceKitchenStatusCommand(
	actor identity.Actor,
	orderID kernel.UUID,
	target order.Status,
) (AdvanceKitchenStatusCommand, error) {
	var targetErr error
	if target != order.Preparing && target != order.ReadyForPickup {
		targetErr = errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s is not a kitchen status", target))
	}

	if err := errors.Join(orderID.Validate(), targetErr); err != nil {
		return AdvanceKitchenStatusCommand{}, err
	}

	return AdvanceKitchenStatusCommand{
		actor:   actor,
		orderID: orderID,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceKitchenStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceKitchenStatusCommandIsNotConstructed)
}

func (c AdvanceKitchenStatusCommand) Actor() identity.Actor { return c.actor }
func (c AdvanceKitchenStatusCommand) OrderID() kernel.UUID  { return c.orderID }
func (c AdvanceKitchenStatusCommand) Target() order.Status  { return c.target }
