package ports

import "context"

// NotificationRelay sends one message to one external channel. A single call is a
// single attempt; callers decide about retries.
type NotificationRelay interface {
	Send(ctx context.Context, channelID string, message string) error
}
