package ports

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
)

var (
	// ErrLocationPermissionDenied means the driver has not shared a device position.
	ErrLocationPermissionDenied = errors.New("location permission denied")

	// ErrPositionUnavailable means no fresh position could be read.
	ErrPositionUnavailable = errors.New("position unavailable")
)

// PositionProvider is the device geolocation sensor: a one-shot read of a driver's
// current coordinate. Implementations must return when ctx is done.
type PositionProvider interface {
	CurrentPosition(ctx context.Context, driverID kernel.UUID) (kernel.Location, error)
}

// PositionStore records the last position a driver's device reported.
type PositionStore interface {
	SavePosition(ctx context.Context, driverID kernel.UUID, location kernel.Location) error
}
