package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// growthLookback is the history the week over week comparison needs.
const growthLookback = 14 * 24 * time.Hour

// GetOrderStatisticsQueryHandler loads the order history and runs the statistics
// aggregator over it.
type GetOrderStatisticsQueryHandler struct {
	history ports.OrderHistoryReader
	stats   services.OrderStatistics
	clock   func() time.Time
}

// NewGetOrderStatisticsQueryHandler creates the handler. A nil clock uses time.Now.
func NewGetOrderStatisticsQueryHandler(
	history ports.OrderHistoryReader,
	clock func() time.Time,
) GetOrderStatisticsQueryHandler {
	if clock == nil {
		clock = time.Now
	}
	return GetOrderStatisticsQueryHandler{
		history: history,
		stats:   services.NewOrderStatistics(),
		clock:   clock,
	}
}

func (h GetOrderStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatisticsQuery,
) (services.Summary, error) {
	if err := query.Validate(); err != nil {
		return services.Summary{}, err
	}

	if err := query.Actor().Require("view order statistics", identity.RoleAdmin); err != nil {
		return services.Summary{}, err
	}

	return Summarize(ctx, h.history, h.stats, query.Window(), h.clock())
}

// Summarize reads enough history to cover both the window and the growth periods
// and summarizes it.
func Summarize(
	ctx context.Context,
	history ports.OrderHistoryReader,
	stats services.OrderStatistics,
	window services.Window,
	now time.Time,
) (services.Summary, error) {
	since := window.Since(now)
	if growthStart := now.Add(-growthLookback); !since.IsZero() && growthStart.Before(since) {
		since = growthStart
	}

	orders, err := history.ListCreatedSince(ctx, since)
	if err != nil {
		return services.Summary{}, err
	}

	return stats.Summarize(orders, window, now)
}
