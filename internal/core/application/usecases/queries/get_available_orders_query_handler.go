package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler reads unassigned orders in a claimable status,
// newest first, with their delivery coordinate when one was captured.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

func (h GetAvailableOrdersQueryHandler) Handle(ctx context.Context, query GetAvailableOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := query.Actor().Require("list available orders", identity.RoleDriver, identity.RoleAdmin); err != nil {
		return nil, err
	}

	claimable := order.ClaimableStatuses()
	statuses := make([]string, 0, len(claimable))
	for _, s := range claimable {
		statuses = append(statuses, s.String())
	}

	return listOrderSummaries(ctx, h.db,
		"o.driver_id IS NULL AND o.status IN ?",
		"o.created_at DESC",
		statuses,
	)
}
