package notification

import (
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
)

func InTransitMessage(orderID kernel.UUID) string {
	return fmt.Sprintf("🚴 Order #%s assigned.\n📦 Status: IN TRANSIT", orderID)
}

func DeliveredMessage(orderID kernel.UUID) string {
	return fmt.Sprintf("✅ Order #%s DELIVERED.\nThe driver confirmed the delivery.", orderID)
}

func LocationCapturedMessage(orderID kernel.UUID) string {
	return fmt.Sprintf("📍 Order #%s\nDelivery location recorded.", orderID)
}

// StatisticsMessage renders the daily report sent by the statistics job.
func StatisticsMessage(s services.Summary) string {
	period := "all time"
	if s.Window != services.WindowAll {
		period = fmt.Sprintf("last %d days", int(s.Window))
	}
	return fmt.Sprintf(
		"📊 Orders (%s): %d\nRevenue: %s\nAverage order: %s\nDay over day: %.2f%%\nWeek over week: %.2f%%",
		period, s.TotalOrders, s.Revenue, s.AverageOrderValue, s.DayOverDayGrowth, s.WeekOverWeekGrowth,
	)
}
