// Package location implements the delivery location resolver: it makes sure an order
// that a driver accepted has one delivery coordinate, reading the driver's device
// position when no coordinate exists yet.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/notification"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// DefaultCaptureTimeout bounds the device position read.
const DefaultCaptureTimeout = 3 * time.Second

// Source tells where the resolved coordinate came from.
type Source int

const (
	// SourceNone means the order still has no delivery coordinate.
	SourceNone Source = iota
	// SourceExisting means a delivery already existed and nothing was written.
	SourceExisting
	// SourceSupplied means the caller supplied the coordinate.
	SourceSupplied
	// SourceDevice means the driver's device position was captured.
	SourceDevice
)

func (s Source) String() string {
	switch s {
	case SourceExisting:
		return "existing"
	case SourceSupplied:
		return "supplied"
	case SourceDevice:
		return "device"
	default:
		return "none"
	}
}

// Warning is the recoverable outcome of a resolution that left the order without a
// coordinate. The order stays deliverable; the map just has no pin.
type Warning struct {
	OrderID kernel.UUID
	Cause   error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("order %s has no delivery location: %v", w.OrderID, w.Cause)
}

func (w *Warning) Unwrap() error {
	return w.Cause
}

// Result describes what Resolve did.
type Result struct {
	Delivery *delivery.Delivery
	Source   Source
	Warning  *Warning
}

type (
	DeliveryUoW interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		DeliveryRepository() ports.DeliveryRepository
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// Notifier is satisfied by *notification.Dispatcher.
	Notifier interface {
		DispatchAsync(ctx context.Context, message string) <-chan notification.DispatchReport
	}
)

// Resolver attaches a delivery coordinate to an order.
type Resolver struct {
	uowFactory     DeliveryUoWFactory
	positions      ports.PositionProvider
	notifier       Notifier
	captureTimeout time.Duration
	logger         *slog.Logger
}

// NewResolver creates a Resolver. A non-positive captureTimeout selects
// DefaultCaptureTimeout.
func NewResolver(
	uowFactory DeliveryUoWFactory,
	positions ports.PositionProvider,
	notifier Notifier,
	captureTimeout time.Duration,
	logger *slog.Logger,
) *Resolver {
	if captureTimeout <= 0 {
		captureTimeout = DefaultCaptureTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		uowFactory:     uowFactory,
		positions:      positions,
		notifier:       notifier,
		captureTimeout: captureTimeout,
		logger:         logger.With(slog.String("component", "location_resolver")),
	}
}

// Resolve ensures orderID has a delivery coordinate.
//
//   - An existing delivery is returned untouched.
//   - Otherwise supplied is stored when given.
//   - Otherwise the driver's device position is read within the capture timeout.
//
// Permission denial, a missing position or a timeout produce a Result with a Warning
// and no error. The returned error is reserved for storage failures.
func (r *Resolver) Resolve(
	ctx context.Context,
	orderID, driverID kernel.UUID,
	supplied *kernel.Location,
) (Result, error) {
	existing, err := r.existing(ctx, orderID)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return Result{Delivery: existing, Source: SourceExisting}, nil
	}

	source := SourceSupplied
	var loc kernel.Location
	if supplied != nil {
		loc = *supplied
	} else {
		source = SourceDevice
		loc, err = r.capture(ctx, driverID)
		if err != nil {
			warning := &Warning{OrderID: orderID, Cause: err}
			r.logger.WarnContext(ctx, "delivery location not captured",
				slog.String("order_id", orderID.String()),
				slog.String("driver_id", driverID.String()),
				slog.Any("error", err),
			)
			return Result{Source: SourceNone, Warning: warning}, nil
		}
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, loc)
	if err != nil {
		return Result{}, err
	}

	if err = r.store(ctx, d); err != nil {
		return Result{}, err
	}

	r.logger.InfoContext(ctx, "delivery location recorded",
		slog.String("order_id", orderID.String()),
		slog.String("source", source.String()),
	)
	if r.notifier != nil {
		r.notifier.DispatchAsync(ctx, notification.LocationCapturedMessage(orderID))
	}

	return Result{Delivery: d, Source: source}, nil
}

func (r *Resolver) existing(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	uow := r.uowFactory.Create()
	deliveries, err := uow.DeliveryRepository().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(deliveries) == 0 {
		return nil, nil
	}
	return deliveries[0], nil
}

func (r *Resolver) store(ctx context.Context, d *delivery.Delivery) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.DeliveryRepository().Add(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type captured struct {
	loc kernel.Location
	err error
}

// capture reads the device position and gives up when the timeout elapses even if the
// provider ignores its context.
func (r *Resolver) capture(ctx context.Context, driverID kernel.UUID) (kernel.Location, error) {
	if r.positions == nil {
		return kernel.Location{}, ports.ErrPositionUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.captureTimeout)
	defer cancel()

	out := make(chan captured, 1)
	go func() {
		loc, err := r.positions.CurrentPosition(ctx, driverID)
		out <- captured{loc: loc, err: err}
	}()

	select {
	case res := <-out:
		if res.err != nil {
			return kernel.Location{}, res.err
		}
		if err := res.loc.Validate(); err != nil {
			return kernel.Location{}, errors.Join(ports.ErrPositionUnavailable, err)
		}
		return res.loc, nil
	case <-ctx.Done():
		return kernel.Location{}, fmt.Errorf("%w: %w", ports.ErrPositionUnavailable, ctx.Err())
	}
}
