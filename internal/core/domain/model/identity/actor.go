// Package identity carries the authenticated caller into every workflow operation.
// There is no ambient "current user": handlers receive an Actor argument.
package identity

import (
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// Role is the part an identity plays in the workflow.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleDriver
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleDriver:
		return "driver"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole maps the identity provider's role claim to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "customer":
		return RoleCustomer, nil
	case "driver":
		return RoleDriver, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Actor is the verified identity behind a request. The zero value is anonymous.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor builds an authenticated actor.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("actor id", err)
	}
	if role == RoleUnknown || role > RoleAdmin {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", role))
	}
	return Actor{id: id, role: role}, nil
}

// Anonymous returns an unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

func (a Actor) ID() kernel.UUID { return a.id }
func (a Actor) Role() Role      { return a.role }

// IsAuthenticated reports whether the actor carries a verified identity.
func (a Actor) IsAuthenticated() bool {
	return !a.id.IsZero() && a.role != RoleUnknown
}

// Require returns an authentication error for an anonymous actor and a forbidden error
// when the actor's role is not among roles. An empty roles list accepts any role.
func (a Actor) Require(operation string, roles ...Role) error {
	if !a.IsAuthenticated() {
		return errs.NewAuthenticationRequiredError(operation)
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if a.role == r {
			return nil
		}
	}
	return errs.NewForbiddenError(operation, fmt.Sprintf("role %s is not allowed", a.role))
}

func (a Actor) String() string {
	if !a.IsAuthenticated() {
		return "anonymous"
	}
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
