package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrReportDriverPositionCommandIsNotConstructed = errors.New(
	"ReportDriverPositionCommand must be created via NewReportDriverPositionCommand constructor",
)

// ReportDriverPositionCommand carries the position a driver's device read. The last
// reported position is what the delivery location resolver captures.
type ReportDriverPositionCommand struct { //nolint:recvcheck //using for validation
	actor    identity.Actor
	location kernel.Location

	guard guard.ConstructorGuard
}

func NewReportDriverPositionCommand(actor identity.Actor, location kernel.Location) (ReportDriverPositionCommand, error) {
	if err := location.Validate(); err != nil {
		return ReportDriverPositionCommand{}, err
	}

	return ReportDriverPositionCommand{
		actor:    actor,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ReportDriverPositionCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverPositionCommandIsNotConstructed)
}

func (c ReportDriverPositionCommand) Actor() identity.Actor     { return c.actor }
func (c ReportDriverPositionCommand) Location() kernel.Location { return c.location }
