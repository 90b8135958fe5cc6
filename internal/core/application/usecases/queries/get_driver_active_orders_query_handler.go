package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetDriverActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverActiveOrdersQueryHandler(db *gorm.DB) GetDriverActiveOrdersQueryHandler {
	return GetDriverActiveOrdersQueryHandler{db: db}
}

// Handle returns the orders the actor is currently delivering, oldest claim first.
func (h GetDriverActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetDriverActiveOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if err := actor.Require("list active deliveries", identity.RoleDriver); err != nil {
		return nil, err
	}

	return listOrderSummaries(ctx, h.db,
		"o.driver_id = ? AND o.status = ?",
		"o.created_at",
		actor.ID().String(), order.InTransit.String(),
	)
}
