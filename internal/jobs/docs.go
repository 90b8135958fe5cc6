// Package jobs provides scheduled background tasks for the food delivery service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field, so schedules have six
// fields.
//
// # Available Jobs
//
// StatisticsReportJob summarizes the order history (the configured lookback window,
// 7/30/90 days or everything) and sends the summary through the notification
// dispatcher. It runs daily at 08:00 unless another schedule is configured.
//
// # Usage
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Register("statistics_report", reportJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and never retried; the next scheduled run starts fresh.
// Failed job starts stop the jobs that were already running.
package jobs
