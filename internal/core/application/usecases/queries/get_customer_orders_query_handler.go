package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"

	"gorm.io/gorm"
)

type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle returns every order of the actor, newest first, whatever its status.
func (h GetCustomerOrdersQueryHandler) Handle(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if err := actor.Require("list order history", identity.RoleCustomer); err != nil {
		return nil, err
	}

	return listOrderSummaries(ctx, h.db, "o.customer_id = ?", "o.created_at DESC", actor.ID().String())
}
