package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetDriverActiveOrdersQueryIsNotConstructed = errors.New(
	"GetDriverActiveOrdersQuery must be created via NewGetDriverActiveOrdersQuery constructor",
)

// GetDriverActiveOrdersQuery lists the in_transit orders of the calling driver.
type GetDriverActiveOrdersQuery struct {
	actor identity.Actor
	guard guard.ConstructorGuard
}

func NewGetDriverActiveOrdersQuery(actor identity.Actor) GetDriverActiveOrdersQuery {
	return GetDriverActiveOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}
}

func (q GetDriverActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverActiveOrdersQueryIsNotConstructed)
}

func (q GetDriverActiveOrdersQuery) Actor() identity.Actor { return q.actor }
