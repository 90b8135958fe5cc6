package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderItemsQueryIsNotConstructed = errors.New(
	"GetOrderItemsQuery must be created via NewGetOrderItemsQuery constructor",
)

// GetOrderItemsQuery reads the line items of one order.
type GetOrderItemsQuery struct {
	actor   identity.Actor
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderItemsQuery(actor identity.Actor, orderID kernel.UUID) (GetOrderItemsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderItemsQuery{}, err
	}
	return GetOrderItemsQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderItemsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderItemsQueryIsNotConstructed)
}

func (q GetOrderItemsQuery) Actor() identity.Actor { return q.actor }
func (q GetOrderItemsQuery) OrderID() kernel.UUID  { return q.orderID }

// OrderItemView is a line item as stored at placement time.
type OrderItemView struct {
	ID          kernel.UUID
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   kernel.Money
	Subtotal    kernel.Money
}
