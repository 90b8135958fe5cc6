package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// MaxAddressLength bounds the delivery address text.
const MaxAddressLength = 512

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderHasNoItems is returned when an order is placed without line items.
	ErrOrderHasNoItems = errs.NewValueIsRequiredError("at least one line item")
)

// Line is the snapshot of one product used to place an order.
type Line struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   kernel.Money
}

// Order represents a customer's request to a restaurant. It is the aggregate root of
// the delivery workflow and owns its line items.
//
// Order follows these invariants:
//   - Must have valid identifiers for itself, the customer and the restaurant
//   - The driver reference is set if and only if the status is in_transit or delivered
//   - Total equals the sum of line item subtotals
//   - Status changes only along the transition table in Status
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID is the identity that placed the order
	customerID kernel.UUID

	// restaurantID is the restaurant fulfilling the order
	restaurantID kernel.UUID

	// driverID is the assigned driver's ID (nil if unassigned)
	driverID *kernel.UUID

	// total is the sum of the line item subtotals
	total kernel.Money

	// createdAt keeps the time zone it was recorded in
	createdAt time.Time

	// address is the free-text delivery address
	address string

	// status represents the current state in the order lifecycle
	status Status

	// items are the immutable line item snapshots
	items []*LineItem

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder places a new order in Pending status with no driver. Line items are built
// from lines and the total is computed from their subtotals.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - customerID, restaurantID: references to the customer and the restaurant
//   - address: non-empty delivery address
//   - createdAt: placement time, kept in its original location
//   - lines: at least one product snapshot
//
// Example:
//
//	price, _ := kernel.MoneyFromString("10.00")
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, "Main St 1", time.Now(),
//	    []order.Line{{ProductID: pizzaID, ProductName: "Pizza", Quantity: 2, UnitPrice: price}})
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(o.Total()) // 20.00
func NewOrder(
	id, customerID, restaurantID kernel.UUID,
	address string,
	createdAt time.Time,
	lines []Line,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		total:         kernel.ZeroMoney(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customerID),
		o.setRestaurant(restaurantID),
		o.setAddress(address),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrOrderHasNoItems
	}

	lineErrs := make([]error, 0, len(lines))
	for i, line := range lines {
		item, err := NewLineItem(kernel.NewUUID(), id, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		o.items = append(o.items, item)
		o.total = o.total.Add(item.Subtotal())
	}
	if err := errors.Join(lineErrs...); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries a persisted order back into the domain.
type RestoreParams struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID
	DriverID     *kernel.UUID
	Total        kernel.Money
	CreatedAt    time.Time
	Address      string
	Status       Status
	Items        []*LineItem
}

// RestoreOrder rebuilds an order read from storage. Items may be omitted when the
// reader does not need them; when present their subtotals must add up to Total.
// Rows that break the driver/status invariant are rejected.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomer(p.CustomerID),
		o.setRestaurant(p.RestaurantID),
		o.setAddress(p.Address),
		o.setCreatedAt(p.CreatedAt),
		p.Total.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if p.DriverID != nil {
		if err := p.DriverID.Validate(); err != nil {
			return nil, err
		}
		driverID := *p.DriverID
		o.driverID = &driverID
	}

	if err := p.Status.ValidateCanHaveDriver(o.driverID != nil); err != nil {
		return nil, err
	}
	o.status = p.Status
	o.total = p.Total

	if len(p.Items) > 0 {
		sum := kernel.ZeroMoney()
		for _, item := range p.Items {
			if err := item.Validate(); err != nil {
				return nil, err
			}
			sum = sum.Add(item.Subtotal())
		}
		if !sum.IsEqual(p.Total) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"total is invalid",
				fmt.Errorf("items add up to %s, total is %s", sum, p.Total),
			)
		}
		o.items = append([]*LineItem(nil), p.Items...)
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Customer returns the identity that placed the order.
func (o *Order) Customer() kernel.UUID {
	return o.customerID
}

// Restaurant returns the restaurant fulfilling the order.
func (o *Order) Restaurant() kernel.UUID {
	return o.restaurantID
}

// Driver returns the assigned driver's ID, or nil when unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Total returns the order amount.
func (o *Order) Total() kernel.Money {
	return o.total
}

// CreatedAt returns the placement time in the location it was recorded in.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Address returns the delivery address.
func (o *Order) Address() string {
	return o.address
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the line item slice. Restored orders may return none.
func (o *Order) Items() []*LineItem {
	return append([]*LineItem(nil), o.items...)
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// IsAssignedTo reports whether driverID is the order's driver.
func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// AssignDriver binds the order to driverID and moves it to InTransit.
//
// This method enforces the following business rules:
//   - The driver ID must be valid
//   - An order that already has a driver cannot be claimed again (conflict)
//   - The order must be pending, preparing or ready_for_pickup
//
// The in-memory check is advisory; the store repeats it as a conditional update so
// that concurrent claims are decided atomically.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver", err)
	}

	if o.driverID != nil {
		return errs.NewConflictError("order", o.id, "already assigned to a driver")
	}

	newStatus, err := o.status.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	return nil
}

// FinalizeDelivery marks the order as delivered.
//
// This method enforces the following business rules:
//   - The order must be in InTransit status (invalid transition otherwise)
//   - driverID must be the assigned driver (forbidden otherwise)
//
// On error the order is left unchanged.
func (o *Order) FinalizeDelivery(driverID kernel.UUID) error {
	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	if !o.IsAssignedTo(driverID) {
		return errs.NewForbiddenError("finalize delivery", "actor is not the assigned driver")
	}

	o.status = newStatus
	return nil
}

// Cancel moves an unassigned, non-terminal order to Cancelled.
func (o *Order) Cancel() error {
	newStatus, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// AdvanceKitchen records restaurant progress. target must be Preparing or ReadyForPickup.
func (o *Order) AdvanceKitchen(target Status) error {
	if target != Preparing && target != ReadyForPickup {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a kitchen status", target),
		)
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setRestaurant(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	if len(address) > MaxAddressLength {
		return errs.NewValueIsOutOfRangeError("address length", len(address), 1, MaxAddressLength)
	}
	o.address = address
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}
