package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/customerly-inc/customerly/internal/shared/hubprotocol/ticketfeed"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const DefaultTicketFeedChannel = "customerly:ticket_changes"

// ChangeSink receives every change, local or remote. The realtime hub
// implements it.
type ChangeSink interface {
	Dispatch(change ticketfeed.Change)
}

// FeedObserver counts feed traffic. *metrics.Metrics satisfies it.
type FeedObserver interface {
	FeedPublished(table, op string)
	FeedReceived()
}

// RedisTicketFeed fans changes out to every API instance. A change is
// handed to the local sink before it goes to Redis so connections on the
// writing instance see it in publish order, and the Redis echo of our own
// changes is dropped.
type RedisTicketFeed struct {
	client     *redis.Client
	channel    string
	sink       ChangeSink
	observer   FeedObserver
	logger     logger.Interface
	instanceID string
}

func NewRedisTicketFeed(client *redis.Client, channel string, sink ChangeSink, observer FeedObserver, logger logger.Interface) *RedisTicketFeed {
	if channel == "" {
		channel = DefaultTicketFeedChannel
	}
	return &RedisTicketFeed{
		client:     client,
		channel:    channel,
		sink:       sink,
		observer:   observer,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (f *RedisTicketFeed) InstanceID() string {
	return f.instanceID
}

// Publish delivers locally, then broadcasts to the other instances. A Redis
// failure is returned but local subscribers have already been served.
func (f *RedisTicketFeed) Publish(ctx context.Context, change ticketfeed.Change) error {
	change.Origin = f.instanceID
	if f.sink != nil {
		f.sink.Dispatch(change)
	}
	if f.observer != nil {
		f.observer.FeedPublished(change.Table, change.Op)
	}

	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket change: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, data).Err(); err != nil {
		f.logger.Errorw("failed to publish ticket change",
			"table", change.Table,
			"row_id", change.RowID,
			"error", err,
		)
		return fmt.Errorf("failed to publish ticket change: %w", err)
	}

	f.logger.Debugw("ticket change published to Redis",
		"table", change.Table,
		"op", change.Op,
		"row_id", change.RowID,
	)
	return nil
}

const (
	resubscribeInitialBackoff = time.Second
	resubscribeMaxBackoff     = 30 * time.Second
)

// Run relays changes from other instances to the sink until ctx ends,
// resubscribing with exponential backoff when the connection drops.
func (f *RedisTicketFeed) Run(ctx context.Context) error {
	// Halved so the first failed attempt waits the initial backoff.
	backoff := resubscribeInitialBackoff / 2

	for {
		subscribed, err := f.subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		backoff = nextResubscribeBackoff(backoff, subscribed)

		f.logger.Warnw("ticket feed subscription disconnected, reconnecting",
			"channel", f.channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// nextResubscribeBackoff returns the wait before the next attempt. A
// subscription that was established starts the sequence over.
func nextResubscribeBackoff(previous time.Duration, subscribed bool) time.Duration {
	if subscribed {
		return resubscribeInitialBackoff
	}
	return min(previous*2, resubscribeMaxBackoff)
}

// subscribe reports whether the subscription was established before it ended.
func (f *RedisTicketFeed) subscribe(ctx context.Context) (bool, error) {
	ps := f.client.Subscribe(ctx, f.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return false, fmt.Errorf("failed to subscribe to channel %s: %w", f.channel, err)
	}
	f.logger.Infow("subscribed to ticket feed", "channel", f.channel, "instance_id", f.instanceID)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				f.logger.Warnw("ticket feed channel closed", "channel", f.channel)
				return true, nil
			}
			f.handle(msg.Payload)
		}
	}
}

// handle runs inline so remote changes reach the sink in Redis order.
func (f *RedisTicketFeed) handle(payload string) {
	var change ticketfeed.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		f.logger.Warnw("failed to unmarshal ticket change", "payload", payload, "error", err)
		return
	}
	if change.Origin == f.instanceID {
		return
	}
	if f.observer != nil {
		f.observer.FeedReceived()
	}
	if f.sink != nil {
		f.sink.Dispatch(change)
	}
}
