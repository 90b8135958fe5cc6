package queries

import (
	"context"
	"database/sql"
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderItemsQueryHandler returns the items of an order to the people involved in
// it: the customer who placed it, its driver, drivers while it is still claimable,
// and admins.
type GetOrderItemsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderItemsQueryHandler(db *gorm.DB) GetOrderItemsQueryHandler {
	return GetOrderItemsQueryHandler{db: db}
}

type orderAccessRow struct {
	CustomerID uuid.UUID
	DriverID   uuid.NullUUID
	Status     string
}

func (h GetOrderItemsQueryHandler) Handle(ctx context.Context, query GetOrderItemsQuery) ([]OrderItemView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.Actor()
	if err := actor.Require("list order items"); err != nil {
		return nil, err
	}

	if err := h.authorize(ctx, actor, query.OrderID()); err != nil {
		return nil, err
	}

	items := make([]OrderItemView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			product_id,
			product_name,
			quantity,
			unit_price,
			subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                OrderItemView
			id, productID       uuid.UUID
			unitPrice, subtotal string
		)

		if err = rows.Scan(&id, &productID, &item.ProductName, &item.Quantity, &unitPrice, &subtotal); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = kernel.MoneyFromString(unitPrice); err != nil {
			return nil, err
		}
		if item.Subtotal, err = kernel.MoneyFromString(subtotal); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (h GetOrderItemsQueryHandler) authorize(ctx context.Context, actor identity.Actor, orderID kernel.UUID) error {
	var row orderAccessRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT customer_id, driver_id, status
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row().Scan(&row.CustomerID, &row.DriverID, &row.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NewObjectNotFoundError("order", orderID.String())
		}
		return err
	}

	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return err
	}

	allowed := false
	switch actor.Role() {
	case identity.RoleAdmin:
		allowed = true
	case identity.RoleCustomer:
		allowed = row.CustomerID == actor.ID().Bytes()
	case identity.RoleDriver:
		if row.DriverID.Valid {
			allowed = row.DriverID.UUID == actor.ID().Bytes()
		} else {
			allowed = status.IsClaimable()
		}
	case identity.RoleUnknown:
	}

	if !allowed {
		return errs.NewForbiddenError("list order items", "actor is not involved in the order")
	}
	return nil
}
