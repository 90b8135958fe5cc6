package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// TransitionObserver is told about every committed order transition.
type TransitionObserver interface {
	ObserveTransition(from, to order.Status)
}

// Effects bundles the best-effort work done after a transition commits. Every field
// is optional. None of them can fail the transition.
type Effects struct {
	Notifier Notifier
	Events   ports.OrderEventPublisher
	Observer TransitionObserver
	Logger   *slog.Logger
	Clock    func() time.Time
}

func (e Effects) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e Effects) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// afterTransition runs once the new status of o is durable. message may be empty.
func (e Effects) afterTransition(ctx context.Context, o *order.Order, from order.Status, message string) {
	e.logger().InfoContext(ctx, "order transition committed",
		slog.String("order_id", o.ID().String()),
		slog.String("from", from.String()),
		slog.String("to", o.Status().String()),
	)

	if e.Observer != nil {
		e.Observer.ObserveTransition(from, o.Status())
	}

	if message != "" && e.Notifier != nil {
		e.Notifier.DispatchAsync(ctx, message)
	}

	if e.Events != nil {
		event := ports.OrderStatusChanged{
			OrderID:    o.ID(),
			CustomerID: o.Customer(),
			DriverID:   o.Driver(),
			From:       from,
			To:         o.Status(),
			OccurredAt: e.now(),
		}
		if err := e.Events.PublishStatusChanged(context.WithoutCancel(ctx), event); err != nil {
			e.logger().WarnContext(ctx, "order event not published",
				slog.String("order_id", o.ID().String()),
				slog.Any("error", err),
			)
		}
	}
}
