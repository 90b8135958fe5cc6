package delivery

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status is the state of a delivery coordinate.
type Status int

const (
	Unknown Status = iota
	// Pending means the coordinate is captured and the order is not delivered yet.
	Pending
	// Delivered is terminal and set by the finalize transition.
	Delivered
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Delivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored name into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "delivered":
		return Delivered, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("delivery status is invalid", fmt.Errorf("%q is not a known status", s))
	}
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if s != Pending && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("delivery status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}
