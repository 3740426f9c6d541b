package helpdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait = 10 * time.Second
	// Server pings every 30s; allow two missed pings before giving up.
	feedPongWait = 60 * time.Second

	feedEventBuffer = 256
)

// ErrFeedNotConnected is returned by SetFilters when no connection is open.
// The filters are kept and sent on the next connect.
var ErrFeedNotConnected = errors.New("feed not connected")

// ReconnectConfig configures automatic reconnection behavior.
type ReconnectConfig struct {
	// InitialInterval is the initial retry interval (default: 1s).
	InitialInterval time.Duration
	// MaxInterval is the maximum retry interval (default: 60s).
	MaxInterval time.Duration
	// MaxElapsedTime bounds how long Run keeps retrying without a successful
	// connection. Zero retries forever.
	MaxElapsedTime time.Duration
	// Multiplier is the factor by which the retry interval increases (default: 2).
	Multiplier float64
	// RandomizationFactor adds jitter to retry intervals (default: 0.1).
	RandomizationFactor float64
}

// DefaultReconnectConfig returns a ReconnectConfig with sensible defaults.
func DefaultReconnectConfig() *ReconnectConfig {
	return &ReconnectConfig{
		InitialInterval:     1 * time.Second,
		MaxInterval:         60 * time.Second,
		MaxElapsedTime:      0,
		Multiplier:          2.0,
		RandomizationFactor: 0.1,
	}
}

// Feed is a reconnecting subscription to the realtime change feed. Events
// arrive on Events in the order the server sent them. After every
// EventConnected the consumer should refetch, since changes made while
// disconnected are not replayed.
type Feed struct {
	client *Client
	config *ReconnectConfig
	events chan FeedEvent

	mu      sync.Mutex
	filters []Filter
	conn    *websocket.Conn
}

// NewFeed creates a feed subscribed to filters. Nothing is dialed until Run.
func (c *Client) NewFeed(config *ReconnectConfig, filters ...Filter) *Feed {
	if config == nil {
		config = DefaultReconnectConfig()
	}
	return &Feed{
		client:  c,
		config:  config,
		events:  make(chan FeedEvent, feedEventBuffer),
		filters: append([]Filter(nil), filters...),
	}
}

// Events is closed when Run returns.
func (f *Feed) Events() <-chan FeedEvent {
	return f.events
}

// SetFilters replaces the subscription. It is sent immediately when
// connected and on every reconnect.
func (f *Feed) SetFilters(filters ...Filter) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filters = append([]Filter(nil), filters...)
	if f.conn == nil {
		return ErrFeedNotConnected
	}
	return f.writeSubscribeLocked()
}

// Run connects and keeps the feed alive with exponential backoff until ctx
// is canceled or MaxElapsedTime passes without a successful connection.
func (f *Feed) Run(ctx context.Context) error {
	defer close(f.events)

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = f.config.InitialInterval
	expBackoff.MaxInterval = f.config.MaxInterval
	expBackoff.Multiplier = f.config.Multiplier
	expBackoff.RandomizationFactor = f.config.RandomizationFactor
	expBackoff.Reset()

	lastConnected := time.Now()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		connected, err := f.runOnce(ctx)
		if connected {
			lastConnected = time.Now()
			expBackoff.Reset()
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.emit(ctx, FeedEvent{Type: EventDisconnected, Err: err})

		if f.config.MaxElapsedTime > 0 && time.Since(lastConnected) >= f.config.MaxElapsedTime {
			return fmt.Errorf("reconnection failed after %v: %w", f.config.MaxElapsedTime, err)
		}

		delay := expBackoff.NextBackOff()
		if delay == backoff.Stop {
			return fmt.Errorf("reconnection failed: %w", err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runOnce executes a single connection lifecycle. connected reports whether
// the dial and subscribe succeeded.
func (f *Feed) runOnce(ctx context.Context) (connected bool, err error) {
	wsURL, err := f.client.buildFeedWSURL()
	if err != nil {
		return false, fmt.Errorf("build websocket url: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("websocket dial failed: status=%d, err=%w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("websocket dial: %w", err)
	}

	f.mu.Lock()
	f.conn = ws
	err = f.writeSubscribeLocked()
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.conn = nil
		f.mu.Unlock()
		ws.Close()
	}()

	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}

	f.emit(ctx, FeedEvent{Type: EventConnected})

	// Unblock ReadMessage when the caller cancels.
	stop := context.AfterFunc(ctx, func() {
		_ = ws.SetReadDeadline(time.Now())
	})
	defer stop()

	return true, f.readLoop(ctx, ws)
}

func (f *Feed) readLoop(ctx context.Context, ws *websocket.Conn) error {
	_ = ws.SetReadDeadline(time.Now().Add(feedPongWait))
	ws.SetPingHandler(func(appData string) error {
		_ = ws.SetReadDeadline(time.Now().Add(feedPongWait))
		err := ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(feedWriteWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var fr frame
		if err := json.Unmarshal(data, &fr); err != nil {
			continue
		}

		switch fr.Type {
		case frameChange:
			f.emit(ctx, FeedEvent{Type: EventChange, Change: Change{
				Table:    fr.Table,
				Op:       fr.Op,
				RowID:    fr.RowID,
				TicketID: fr.TicketID,
				Data:     fr.Data,
				At:       time.UnixMilli(fr.Timestamp),
			}})
		case frameError:
			f.emit(ctx, FeedEvent{Type: EventRejected, Err: errors.New(fr.Error)})
		case frameSubscribed:
		}
	}
}

// writeSubscribeLocked must be called with f.mu held.
func (f *Feed) writeSubscribeLocked() error {
	if len(f.filters) == 0 {
		return nil
	}
	_ = f.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return f.conn.WriteJSON(frame{
		Type:      frameSubscribe,
		Filters:   f.filters,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (f *Feed) emit(ctx context.Context, ev FeedEvent) {
	select {
	case f.events <- ev:
	case <-ctx.Done():
	}
}

// buildFeedWSURL builds the websocket URL for the change feed.
func (c *Client) buildFeedWSURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		u.Scheme = "wss"
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + apiPrefix + "/realtime"

	q := u.Query()
	q.Set("access_token", c.token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
