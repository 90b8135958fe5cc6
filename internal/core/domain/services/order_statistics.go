package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DayLayout is the calendar day key of ByDay buckets.
const DayLayout = "2006-01-02"

// Window is a lookback period in days. WindowAll disables filtering.
type Window int

const (
	WindowAll    Window = 0
	Window7Days  Window = 7
	Window30Days Window = 30
	Window90Days Window = 90
)

const (
	dayPeriod  = 24 * time.Hour
	weekPeriod = 7 * dayPeriod
	percent    = 100
)

// ParseWindow accepts 0, 7, 30 or 90 days.
func ParseWindow(days int) (Window, error) {
	switch w := Window(days); w {
	case WindowAll, Window7Days, Window30Days, Window90Days:
		return w, nil
	default:
		return WindowAll, errs.NewValueIsInvalidErrorWithCause("window", fmt.Errorf("%d days is not one of 7, 30, 90", days))
	}
}

// Since returns the start of the window relative to now, or the zero time for WindowAll.
func (w Window) Since(now time.Time) time.Time {
	if w == WindowAll {
		return time.Time{}
	}
	return now.Add(-time.Duration(w) * dayPeriod)
}

// DayBucket aggregates the orders created on one calendar day.
type DayBucket struct {
	Day     string
	Count   int
	Revenue kernel.Money
}

// Summary is the result of OrderStatistics.Summarize.
type Summary struct {
	Window             Window
	TotalOrders        int
	Revenue            kernel.Money
	AverageOrderValue  kernel.Money
	ByStatus           map[order.Status]int
	ByDay              []DayBucket
	DayOverDayGrowth   float64
	WeekOverWeekGrowth float64
}

// OrderStatistics is a domain service that summarizes an order history.
//
// Summarize is pure: it reads only its arguments, so identical inputs produce identical
// summaries and the order of the input slice never matters.
//
// Business rules:
//   - Orders created before the window start are ignored for totals and breakdowns
//   - Calendar days are taken from each creation time in its own location
//   - Growth compares rolling periods ending at now over the whole input
//   - The average order value is rounded to two places and is zero without orders
//
// Example usage:
//
//	stats := services.NewOrderStatistics()
//	summary, err := stats.Summarize(orders, services.Window30Days, time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(summary.TotalOrders, summary.Revenue)
type OrderStatistics struct{}

// NewOrderStatistics creates a new OrderStatistics instance.
func NewOrderStatistics() OrderStatistics {
	return OrderStatistics{}
}

// Summarize computes the rollups for orders within window relative to now.
func (s OrderStatistics) Summarize(orders []*order.Order, window Window, now time.Time) (Summary, error) {
	if _, err := ParseWindow(int(window)); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Window:   window,
		ByStatus: make(map[order.Status]int, len(order.AllStatuses())),
	}
	for _, st := range order.AllStatuses() {
		summary.ByStatus[st] = 0
	}

	since := window.Since(now)
	revenue := decimal.Zero
	days := make(map[string]*dayAccumulator)

	var lastDay, prevDay, lastWeek, prevWeek int

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return Summary{}, err
		}

		createdAt := o.CreatedAt()

		lastDay += countIn(createdAt, now.Add(-dayPeriod), now)
		prevDay += countIn(createdAt, now.Add(-2*dayPeriod), now.Add(-dayPeriod))
		lastWeek += countIn(createdAt, now.Add(-weekPeriod), now)
		prevWeek += countIn(createdAt, now.Add(-2*weekPeriod), now.Add(-weekPeriod))

		if window != WindowAll && createdAt.Before(since) {
			continue
		}

		summary.TotalOrders++
		summary.ByStatus[o.Status()]++
		revenue = revenue.Add(o.Total().Decimal())

		key := createdAt.Format(DayLayout)
		acc, ok := days[key]
		if !ok {
			acc = &dayAccumulator{revenue: decimal.Zero}
			days[key] = acc
		}
		acc.count++
		acc.revenue = acc.revenue.Add(o.Total().Decimal())
	}

	var err error
	if summary.Revenue, err = kernel.NewMoney(revenue); err != nil {
		return Summary{}, err
	}

	average := decimal.Zero
	if summary.TotalOrders > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(summary.TotalOrders)))
	}
	if summary.AverageOrderValue, err = kernel.NewMoney(average); err != nil {
		return Summary{}, err
	}

	summary.ByDay = make([]DayBucket, 0, len(days))
	for key, acc := range days {
		dayRevenue, err := kernel.NewMoney(acc.revenue)
		if err != nil {
			return Summary{}, err
		}
		summary.ByDay = append(summary.ByDay, DayBucket{Day: key, Count: acc.count, Revenue: dayRevenue})
	}
	sort.Slice(summary.ByDay, func(i, j int) bool { return summary.ByDay[i].Day < summary.ByDay[j].Day })

	summary.DayOverDayGrowth = GrowthRate(prevDay, lastDay)
	summary.WeekOverWeekGrowth = GrowthRate(prevWeek, lastWeek)

	return summary, nil
}

// GrowthRate returns the percentage change from previous to current, rounded to two
// places. It is 0 when both are zero and 100 when only previous is zero.
func GrowthRate(previous, current int) float64 {
	switch {
	case previous == 0 && current == 0:
		return 0
	case previous == 0:
		return percent
	}
	rate := float64(current-previous) / float64(previous) * percent
	return math.Round(rate*percent) / percent
}

type dayAccumulator struct {
	count   int
	revenue decimal.Decimal
}

// countIn returns 1 when t is in the half-open period (from, to].
func countIn(t, from, to time.Time) int {
	if t.After(from) && !t.After(to) {
		return 1
	}
	return 0
}
