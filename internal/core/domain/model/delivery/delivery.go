package delivery

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery was not built by a constructor.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")

// Delivery is the geographic destination recorded for an order. Storage allows
// several per order; the workflow keeps exactly one.
//
// Invariants:
//   - The coordinate is only replaced through Recapture, and only while pending
//   - Delivered is terminal
type Delivery struct {
	id            kernel.UUID
	orderID       kernel.UUID
	location      kernel.Location
	status        Status
	isConstructed bool
}

// NewDelivery captures location for orderID in Pending status.
//
// Example:
//
//	loc, _ := kernel.NewLocation(-34.6037, -58.3816)
//	d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, loc)
func NewDelivery(id, orderID kernel.UUID, location kernel.Location) (*Delivery, error) {
	return RestoreDelivery(id, orderID, location, Pending)
}

// RestoreDelivery rebuilds a persisted delivery.
func RestoreDelivery(id, orderID kernel.UUID, location kernel.Location, status Status) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		location.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:            id,
		orderID:       orderID,
		location:      location,
		status:        status,
		isConstructed: true,
	}, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID           { return d.id }
func (d *Delivery) OrderID() kernel.UUID      { return d.orderID }
func (d *Delivery) Location() kernel.Location { return d.location }
func (d *Delivery) Status() Status            { return d.status }

// MarkDelivered moves a pending delivery to Delivered.
func (d *Delivery) MarkDelivered() error {
	if d.status != Pending {
		return errs.NewInvalidTransitionError("delivery", d.status, Delivered)
	}
	d.status = Delivered
	return nil
}

// Recapture replaces the coordinate of a pending delivery.
func (d *Delivery) Recapture(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if d.status != Pending {
		return errs.NewInvalidTransitionError("delivery", d.status, Pending)
	}
	d.location = location
	return nil
}
