// Package redis keeps the last position reported by each driver's device. Entries
// expire so that a silent device stops counting as a position source.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

var (
	_ ports.PositionStore    = (*PositionStore)(nil)
	_ ports.PositionProvider = (*PositionStore)(nil)
)

const keyPrefix = "fooddelivery:driver_position:"

type client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type storedPosition struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	ReportedAt time.Time `json:"reported_at"`
}

type PositionStore struct {
	client client
	ttl    time.Duration
	clock  func() time.Time
}

func NewPositionStore(c client, ttl time.Duration) *PositionStore {
	return &PositionStore{client: c, ttl: ttl, clock: time.Now}
}

func (s *PositionStore) SavePosition(ctx context.Context, driverID kernel.UUID, location kernel.Location) error {
	value, err := json.Marshal(storedPosition{
		Latitude:   location.Latitude(),
		Longitude:  location.Longitude(),
		ReportedAt: s.clock().UTC(),
	})
	if err != nil {
		return err
	}

	if err = s.client.Set(ctx, key(driverID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save driver position: %w", err)
	}
	return nil
}

// CurrentPosition returns ports.ErrPositionUnavailable when the driver has not
// reported within the TTL.
func (s *PositionStore) CurrentPosition(ctx context.Context, driverID kernel.UUID) (kernel.Location, error) {
	raw, err := s.client.Get(ctx, key(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return kernel.Location{}, ports.ErrPositionUnavailable
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return kernel.Location{}, ctxErr
		}
		return kernel.Location{}, fmt.Errorf("%w: %w", ports.ErrPositionUnavailable, err)
	}

	var stored storedPosition
	if err = json.Unmarshal(raw, &stored); err != nil {
		return kernel.Location{}, fmt.Errorf("%w: corrupt entry: %w", ports.ErrPositionUnavailable, err)
	}
	return kernel.NewLocation(stored.Latitude, stored.Longitude)
}

func key(driverID kernel.UUID) string {
	return keyPrefix + driverID.String()
}

// Connect opens a client and checks that the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return c, nil
}
