// Package telegram sends workflow notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fooddelivery/internal/core/ports"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

var _ ports.NotificationRelay = (*Relay)(nil)

const DefaultBaseURL = "https://api.telegram.org"

// maxResponseBytes bounds how much of a reply is read. sendMessage replies are small.
const maxResponseBytes = 64 << 10

var ErrRejected = errors.New("telegram rejected the message")

type Config struct {
	BaseURL string
	Token   string
	// PerSecond and Burst limit outgoing calls across all chats. The Bot API allows
	// about 30 messages per second.
	PerSecond float64
	Burst     int
	Timeout   time.Duration
}

// Relay performs exactly one sendMessage call per Send. It never retries.
type Relay struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter
}

func NewRelay(cfg Config) (*Relay, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 25
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Relay{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/bot" + cfg.Token + "/sendMessage",
		limiter:  rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst),
	}, nil
}

func (r *Relay) Send(ctx context.Context, channelID string, message string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("chat_id", channelID)
	form.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		// the URL contains the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("sendMessage: %w", urlErr.Err)
		}
		return fmt.Errorf("sendMessage: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: status %d with a non JSON body", ErrRejected, resp.StatusCode)
	}
	reply := gjson.ParseBytes(body)
	if !reply.Get("ok").Bool() {
		return fmt.Errorf("%w: %d %s", ErrRejected,
			reply.Get("error_code").Int(), reply.Get("description").String())
	}
	return nil
}
