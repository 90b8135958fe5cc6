// Package metrics exposes workflow counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"fooddelivery/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fooddelivery"

// Recorder implements notification.Observer and commands.TransitionObserver and
// records HTTP traffic for the echo middleware.
type Recorder struct {
	transitions       *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	locationOutcomes  *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	httpInFlight      prometheus.Gauge
	reportsDispatched prometheus.Counter
}

// NewRecorder registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Committed order status transitions.",
		}, []string{"from", "to"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sends_total",
			Help:      "Notification send attempts per channel and outcome.",
		}, []string{"channel", "outcome"}),

		locationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "location",
			Name:      "resolutions_total",
			Help:      "Delivery location resolutions by outcome.",
		}, []string{"outcome"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		reportsDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "statistics_reports_total",
			Help:      "Statistics reports handed to the notification dispatcher.",
		}),
	}
}

func (r *Recorder) ObserveTransition(from, to order.Status) {
	r.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (r *Recorder) ObserveSend(channelID string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	r.notifications.WithLabelValues(channelID, outcome).Inc()
}

// ObserveLocation counts resolver outcomes such as "captured", "existing" or "warning".
func (r *Recorder) ObserveLocation(outcome string) {
	r.locationOutcomes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ObserveReport() {
	r.reportsDispatched.Inc()
}

// RequestStarted marks one request in flight and returns the function that records
// its completion.
func (r *Recorder) RequestStarted() func(method, route string, status int) {
	r.httpInFlight.Inc()
	start := time.Now()

	return func(method, route string, status int) {
		r.httpInFlight.Dec()
		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		r.httpRequests.With(labels).Inc()
		r.httpDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
