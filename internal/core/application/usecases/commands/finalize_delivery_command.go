package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrFinalizeDeliveryCommandIsNotConstructed = errors.New(
	"FinalizeDeliveryCommand must be created via NewFinalizeDeliveryCommand constructor",
)

// FinalizeDeliveryCommand represents the assigned driver confirming the hand-over.
type FinalizeDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor   identity.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewFinalizeDeliveryCommand(actor identity.Actor, orderID kernel.UUID) (FinalizeDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return FinalizeDeliveryCommand{}, err
	}

	return FinalizeDeliveryCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FinalizeDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeDeliveryCommandIsNotConstructed)
}

func (c FinalizeDeliveryCommand) Actor() identity.Actor { return c.actor }
func (c FinalizeDeliveryCommand) OrderID() kernel.UUID  { return c.orderID }
