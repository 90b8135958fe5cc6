package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
	"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
)

// GetCustomerOrdersQuery is the order history of the calling customer.
type GetCustomerOrdersQuery struct {
	actor identity.Actor
	guard guard.ConstructorGuard
}

func NewGetCustomerOrdersQuery(actor identity.Actor) GetCustomerOrdersQuery {
	return GetCustomerOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}
}

func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) Actor() identity.Actor { return q.actor }
