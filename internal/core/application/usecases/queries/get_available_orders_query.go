package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery lists the orders a driver can still accept.
//
// Example:
//
//	query := NewGetAvailableOrdersQuery(actor)
//	handler := NewGetAvailableOrdersQueryHandler(db)
//
//	available, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list available orders: %w", err)
//	}
type GetAvailableOrdersQuery struct {
	actor identity.Actor
	guard guard.ConstructorGuard
}

func NewGetAvailableOrdersQuery(actor identity.Actor) GetAvailableOrdersQuery {
	return GetAvailableOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) Actor() identity.Actor { return q.actor }
