package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// Every change goes through TransitionTo, which consults a single transition table.
//
// State transitions:
//
//	pending ──> preparing ──> ready_for_pickup
//	   │            │               │
//	   ├────────────┴───────────────┴──> in_transit ──> delivered
//	   │            │               │
//	   └────────────┴───────────────┴──> cancelled
//
// delivered and cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a placed order.
	Pending

	// Preparing means the restaurant is cooking the order.
	Preparing

	// ReadyForPickup means the order waits at the restaurant for a driver.
	ReadyForPickup

	// InTransit means a driver has claimed the order and is on the way.
	InTransit

	// Delivered is a final state reached when the assigned driver finalizes.
	Delivered

	// Cancelled is a final state reached before any driver was assigned.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Preparing:      "preparing",
		ReadyForPickup: "ready_for_pickup",
		InTransit:      "in_transit",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// getTransitions is the transition table. A target missing from a row is illegal.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:        {Preparing, InTransit, Cancelled},
		Preparing:      {ReadyForPickup, InTransit, Cancelled},
		ReadyForPickup: {InTransit, Cancelled},
		InTransit:      {Delivered},
	}
}

// ParseStatus converts the stored snake_case name back into a Status.
// Unknown names are rejected so loosely typed rows never reach the domain.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Preparing, ReadyForPickup, InTransit, Delivered, Cancelled}
}

// Validate checks that s is one of the declared statuses other than Unknown.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name used in storage and on the wire.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsClaimable reports whether a driver may accept an order in status s.
func (s Status) IsClaimable() bool {
	return s == Pending || s == Preparing || s == ReadyForPickup
}

// ClaimableStatuses returns the statuses from which a driver can accept an order.
func ClaimableStatuses() []Status {
	return []Status{Pending, Preparing, ReadyForPickup}
}

// RequiresDriver reports whether an order in status s must have a driver reference.
func (s Status) RequiresDriver() bool {
	return s == InTransit || s == Delivered
}

// CanTransitionTo reports whether the table has an edge from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the move is legal and an
// *errs.InvalidTransitionError otherwise.
//
// Example:
//
//	next, err := order.Pending.TransitionTo(order.InTransit)
//	// next == order.InTransit, err == nil
//	_, err = order.Delivered.TransitionTo(order.InTransit)
//	// errors.Is(err, errs.ErrInvalidTransition) == true
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewInvalidTransitionError("order", s, target)
	}
	return target, nil
}

// ValidateCanHaveDriver checks the pairing of a status with the presence of a driver:
// a driver is present exactly when the status is in_transit or delivered.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver && !s.RequiresDriver() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver", s.String()),
		)
	}

	if !hasDriver && s.RequiresDriver() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver", s.String()),
		)
	}

	return nil
}
