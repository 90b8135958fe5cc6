// Package notification fans status lines out to the configured external channels.
//
// Every channel gets exactly one send attempt per message. Sends run concurrently,
// each bounded by its own timeout, and the outcome of every channel is collected in a
// DispatchReport. Failures are logged and counted but never returned to the workflow
// operation that triggered the message.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fooddelivery/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultSendTimeout bounds a single channel send.
const DefaultSendTimeout = 5 * time.Second

var ErrNoChannels = errors.New("at least one notification channel is required")

// Observer is told about every channel outcome. Metrics adapters implement it.
type Observer interface {
	ObserveSend(channelID string, err error)
}

// ChannelOutcome is the result of the single attempt made for one channel.
type ChannelOutcome struct {
	ChannelID string
	Err       error
	Duration  time.Duration
}

// DispatchReport lists the outcome of every configured channel in configuration order.
type DispatchReport struct {
	Message  string
	Outcomes []ChannelOutcome
}

// Succeeded returns the number of channels that accepted the message.
func (r DispatchReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that ended with an error.
func (r DispatchReport) Failed() []ChannelOutcome {
	var failed []ChannelOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Dispatcher sends a message to a fixed channel list through a relay.
type Dispatcher struct {
	relay       ports.NotificationRelay
	channels    []string
	sendTimeout time.Duration
	logger      *slog.Logger
	observer    Observer
}

type Option func(*Dispatcher)

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.sendTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// NewDispatcher validates the channel list. Blank entries are dropped.
func NewDispatcher(relay ports.NotificationRelay, channels []string, opts ...Option) (*Dispatcher, error) {
	if relay == nil {
		return nil, errors.New("notification relay is required")
	}

	cleaned := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch = strings.TrimSpace(ch); ch != "" {
			cleaned = append(cleaned, ch)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoChannels
	}

	d := &Dispatcher{
		relay:       relay,
		channels:    cleaned,
		sendTimeout: DefaultSendTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(slog.String("component", "notification_dispatcher"))

	return d, nil
}

// Channels returns a copy of the configured channel identifiers.
func (d *Dispatcher) Channels() []string {
	return append([]string(nil), d.channels...)
}

// Dispatch attempts every channel once and waits for all of them. It never fails;
// inspect the report for per-channel errors.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) DispatchReport {
	report := DispatchReport{
		Message:  message,
		Outcomes: make([]ChannelOutcome, len(d.channels)),
	}

	// Goroutines never return an error so one failing channel cannot cancel the others.
	var g errgroup.Group
	for i, channelID := range d.channels {
		g.Go(func() error {
			report.Outcomes[i] = d.sendOne(ctx, channelID, message)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range report.Outcomes {
		if d.observer != nil {
			d.observer.ObserveSend(o.ChannelID, o.Err)
		}
		if o.Err != nil {
			d.logger.Warn("notification send failed",
				slog.String("channel", o.ChannelID),
				slog.Duration("duration", o.Duration),
				slog.Any("error", o.Err),
			)
		}
	}

	return report
}

// DispatchAsync runs Dispatch in the background, detached from ctx cancellation, and
// returns immediately. The returned channel receives the report once; callers that do
// not care simply ignore it.
func (d *Dispatcher) DispatchAsync(ctx context.Context, message string) <-chan DispatchReport {
	done := make(chan DispatchReport, 1)
	detached := context.WithoutCancel(ctx)

	go func() {
		done <- d.Dispatch(detached, message)
		close(done)
	}()

	return done
}

func (d *Dispatcher) sendOne(ctx context.Context, channelID, message string) (outcome ChannelOutcome) {
	start := time.Now()
	outcome.ChannelID = channelID

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("relay panicked: %v", r)
		}
		outcome.Duration = time.Since(start)
	}()

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	outcome.Err = d.relay.Send(sendCtx, channelID, message)
	return outcome
}
