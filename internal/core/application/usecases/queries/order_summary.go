// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the aggregates and return read models shaped for one screen.
package queries

import (
	"context"
	"database/sql"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderSummary is the list row shown to drivers and customers.
// DeliveryLocation is nil until the order has a delivery coordinate.
type OrderSummary struct {
	ID               kernel.UUID
	CustomerID       kernel.UUID
	RestaurantID     kernel.UUID
	DriverID         *kernel.UUID
	Address          string
	Total            kernel.Money
	Status           order.Status
	CreatedAt        time.Time
	DeliveryLocation *kernel.Location
}

// orderSummaryColumns must stay in sync with scanOrderSummary.
const orderSummaryColumns = `
	o.id,
	o.customer_id,
	o.restaurant_id,
	o.driver_id,
	o.address,
	o.total,
	o.status,
	o.created_at,
	d.latitude,
	d.longitude`

// orderSummaryFrom joins the first delivery of every order, if any.
const orderSummaryFrom = `
	FROM orders o
	LEFT JOIN LATERAL (
		SELECT latitude, longitude
		FROM deliveries
		WHERE order_id = o.id
		ORDER BY created_at
		LIMIT 1
	) d ON TRUE`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderSummary(rows rowScanner) (OrderSummary, error) {
	var (
		summary                    OrderSummary
		id, customerID, restaurant uuid.UUID
		driverID                   uuid.NullUUID
		total, status              string
		latitude, longitude        sql.NullFloat64
	)

	if err := rows.Scan(
		&id,
		&customerID,
		&restaurant,
		&driverID,
		&summary.Address,
		&total,
		&status,
		&summary.CreatedAt,
		&latitude,
		&longitude,
	); err != nil {
		return OrderSummary{}, err
	}

	var err error
	if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderSummary{}, err
	}
	if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return OrderSummary{}, err
	}
	if summary.RestaurantID, err = kernel.UUIDFromBytes(restaurant[:]); err != nil {
		return OrderSummary{}, err
	}
	if driverID.Valid {
		driver, idErr := kernel.UUIDFromBytes(driverID.UUID[:])
		if idErr != nil {
			return OrderSummary{}, idErr
		}
		summary.DriverID = &driver
	}

	if summary.Total, err = kernel.MoneyFromString(total); err != nil {
		return OrderSummary{}, err
	}

	if summary.Status, err = order.ParseStatus(status); err != nil {
		return OrderSummary{}, err
	}

	if latitude.Valid && longitude.Valid {
		loc, locErr := kernel.NewLocation(latitude.Float64, longitude.Float64)
		if locErr != nil {
			return OrderSummary{}, locErr
		}
		summary.DeliveryLocation = &loc
	}

	return summary, nil
}

func listOrderSummaries(ctx context.Context, db *gorm.DB, where, orderBy string, args ...any) ([]OrderSummary, error) {
	summaries := make([]OrderSummary, 0)

	rows, err := db.WithContext(ctx).Raw(
		"SELECT"+orderSummaryColumns+orderSummaryFrom+"\n\tWHERE "+where+"\n\tORDER BY "+orderBy,
		args...,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		summary, scanErr := scanOrderSummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
