package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultReportSchedule runs the report every day at 08:00 server time.
const DefaultReportSchedule = "0 0 8 * * *"

// reportTimeout bounds one run, history read and every channel send included.
const reportTimeout = time.Minute

// ReportDispatcher is satisfied by *notification.Dispatcher.
type ReportDispatcher interface {
	Dispatch(ctx context.Context, message string) notification.DispatchReport
}

// ReportObserver is told about every dispatched report.
type ReportObserver interface {
	ObserveReport()
}

// StatisticsReportJob sends an order statistics summary to the notification channels
// on a cron schedule.
type StatisticsReportJob struct {
	history    ports.OrderHistoryReader
	stats      services.OrderStatistics
	dispatcher ReportDispatcher
	observer   ReportObserver
	window     services.Window
	schedule   string
	clock      func() time.Time
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewStatisticsReportJob(
	history ports.OrderHistoryReader,
	dispatcher ReportDispatcher,
	observer ReportObserver,
	window services.Window,
	schedule string,
	logger *slog.Logger,
) *StatisticsReportJob {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &StatisticsReportJob{
		history:    history,
		stats:      services.NewOrderStatistics(),
		dispatcher: dispatcher,
		observer:   observer,
		window:     window,
		schedule:   schedule,
		clock:      time.Now,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "statistics_report_job"),
	}
}

// Start registers the report on its schedule and starts the scheduler.
func (j *StatisticsReportJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Statistics report job started", "schedule", j.schedule)
	return nil
}

// Run builds and sends one report. Failures are logged; the next run starts fresh.
func (j *StatisticsReportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	summary, err := queries.Summarize(ctx, j.history, j.stats, j.window, j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Statistics report failed", "error", err)
		return
	}

	report := j.dispatcher.Dispatch(ctx, notification.StatisticsMessage(summary))
	if j.observer != nil {
		j.observer.ObserveReport()
	}

	if failed := report.Failed(); len(failed) > 0 {
		j.logger.WarnContext(ctx, "Statistics report not delivered everywhere",
			"succeeded", report.Succeeded(), "failed", len(failed))
		return
	}
	j.logger.InfoContext(ctx, "Statistics report sent", "orders", summary.TotalOrders)
}

// Stop stops the scheduler and waits for a running report to finish.
func (j *StatisticsReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Statistics report job stopped")
}
