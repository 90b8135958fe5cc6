package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRecaptureDeliveryLocationCommandIsNotConstructed = errors.New(
	"RecaptureDeliveryLocationCommand must be created via NewRecaptureDeliveryLocationCommand constructor",
)

// RecaptureDeliveryLocationCommand is the explicit action of the assigned driver that
// replaces the coordinate of a pending delivery, or records one if none exists.
type RecaptureDeliveryLocationCommand struct { //nolint:recvcheck //using for validation
	actor    identity.Actor
	orderID  kernel.UUID
	location kernel.Location

	guard guard.ConstructorGuard
}

func NewRecaptureDeliveryLocationCommand(
	actor identity.Actor,
	orderID kernel.UUID,
	location kernel.Location,
) (RecaptureDeliveryLocationCommand, error) {
	if err := errors.Join(orderID.Validate(), location.Validate()); err != nil {
		return RecaptureDeliveryLocationCommand{}, err
	}

	return RecaptureDeliveryLocationCommand{
		actor:    actor,
		orderID:  orderID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecaptureDeliveryLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecaptureDeliveryLocationCommandIsNotConstructed)
}

func (c RecaptureDeliveryLocationCommand) Actor() identity.Actor     { return c.actor }
func (c RecaptureDeliveryLocationCommand) OrderID() kernel.UUID      { return c.orderID }
func (c RecaptureDeliveryLocationCommand) Location() kernel.Location { return c.location }
