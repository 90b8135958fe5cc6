package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/order"
)

// OrderHistoryReader streams the order history for reporting. Orders are returned
// without line items.
type OrderHistoryReader interface {
	// ListCreatedSince returns orders created at or after since. The zero time returns
	// the full history.
	ListCreatedSince(ctx context.Context, since time.Time) ([]*order.Order, error)
}
