package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/identity"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrderStatisticsQueryIsNotConstructed = errors.New(
	"GetOrderStatisticsQuery must be created via NewGetOrderStatisticsQuery constructor",
)

// GetOrderStatisticsQuery summarizes the order history over a lookback window.
// windowDays is 0 for the whole history, or 7, 30 or 90.
type GetOrderStatisticsQuery struct {
	actor  identity.Actor
	window services.Window
	guard  guard.ConstructorGuard
}

func NewGetOrderStatisticsQuery(actor identity.Actor, windowDays int) (GetOrderStatisticsQuery, error) {
	window, err := services.ParseWindow(windowDays)
	if err != nil {
		return GetOrderStatisticsQuery{}, err
	}
	return GetOrderStatisticsQuery{actor: actor, window: window, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatisticsQueryIsNotConstructed)
}

func (q GetOrderStatisticsQuery) Actor() identity.Actor   { return q.actor }
func (q GetOrderStatisticsQuery) Window() services.Window { return q.window }
