// Package statsreader reads the order history for reporting over a plain database/sql
// connection. It bypasses the gorm unit of work because reporting never writes and
// needs no line items.
package statsreader

import (
	"context"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ ports.OrderHistoryReader = (*Reader)(nil)

type historyRow struct {
	ID           uuid.UUID       `db:"id"`
	CustomerID   uuid.UUID       `db:"customer_id"`
	RestaurantID uuid.UUID       `db:"restaurant_id"`
	DriverID     uuid.NullUUID   `db:"driver_id"`
	Total        decimal.Decimal `db:"total"`
	Address      string          `db:"address"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
}

type Reader struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *Reader) ListCreatedSince(ctx context.Context, since time.Time) ([]*order.Order, error) {
	builder := r.qb.Select(
		"id", "customer_id", "restaurant_id", "driver_id",
		"total", "address", "status", "created_at").
		From("orders").
		OrderBy("created_at")
	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build history query: %w", err)
	}

	var rows []historyRow
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order history: %w", err)
	}

	history := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		o, rowErr := row.toDomain()
		if rowErr != nil {
			return nil, fmt.Errorf("order %s: %w", row.ID, rowErr)
		}
		history = append(history, o)
	}
	return history, nil
}

func (row historyRow) toDomain() (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(row.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(row.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if row.DriverID.Valid {
		dID, driverErr := kernel.UUIDFromBytes(row.DriverID.UUID[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	total, err := kernel.NewMoney(row.Total)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:           id,
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		DriverID:     driverID,
		Total:        total,
		CreatedAt:    row.CreatedAt,
		Address:      row.Address,
		Status:       status,
	})
}
