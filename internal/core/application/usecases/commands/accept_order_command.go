package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents a driver claiming an unassigned order.
// devicePosition is the coordinate the driver's app sent along with the request, if any.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(actor, orderID, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another driver was faster
//	}
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	actor          identity.Actor
	orderID        kernel.UUID
	devicePosition *kernel.Location

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(
	actor identity.Actor,
	orderID kernel.UUID,
	devicePosition *kernel.Location,
) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return AcceptOrderCommand{}, err
	}
	cmd.orderID = orderID

	if devicePosition != nil {
		if err := devicePosition.Validate(); err != nil {
			return AcceptOrderCommand{}, err
		}
		pos := *devicePosition
		cmd.devicePosition = &pos
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) Actor() identity.Actor { return c.actor }
func (c AcceptOrderCommand) OrderID() kernel.UUID  { return c.orderID }

// DevicePosition returns the optional coordinate captured by the driver's device.
func (c AcceptOrderCommand) DevicePosition() *kernel.Location {
	return c.devicePosition
}
