// Package services provides long-lived infrastructure services.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/hubprotocol/ticketfeed"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const (
	DefaultMaxConnsPerUser = 5
	DefaultSendBuffer      = 64
	maxFiltersPerConn      = 32
)

// TicketAccessChecker confirms an actor may watch one ticket.
type TicketAccessChecker interface {
	CanViewTicket(ctx context.Context, actor authorization.Actor, ticketID string) error
}

// HubObserver counts connections and dropped frames. *metrics.Metrics
// satisfies it.
type HubObserver interface {
	ConnectionOpened()
	ConnectionClosed()
	FrameDropped()
}

// FeedConn is one websocket subscriber. Send is closed by the hub on
// unregister; Done is closed when the hub wants the connection gone.
type FeedConn struct {
	ID          string
	Actor       authorization.Actor
	Send        chan ticketfeed.Frame
	ConnectedAt time.Time

	mu      sync.RWMutex
	filters []ticketfeed.Filter

	done     chan struct{}
	doneOnce sync.Once
}

func (c *FeedConn) Done() <-chan struct{} {
	return c.done
}

func (c *FeedConn) kick() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *FeedConn) Filters() []ticketfeed.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ticketfeed.Filter(nil), c.filters...)
}

func (c *FeedConn) matches(table, ticketID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.filters {
		if f.Matches(table, ticketID) {
			return true
		}
	}
	return false
}

// canSee keeps customers to their own tickets and staff-only notes away
// from them.
func (c *FeedConn) canSee(change ticketfeed.Change) bool {
	if c.Actor.IsStaff() {
		return true
	}
	if change.Internal {
		return false
	}
	return change.CustomerID == c.Actor.UserID
}

type TicketHubConfig struct {
	MaxConnsPerUser int
	SendBuffer      int
}

// TicketHub tracks realtime subscribers and routes ticket changes to the
// ones allowed to see them.
type TicketHub struct {
	conns   map[string]*FeedConn
	perUser map[string]int
	connsMu sync.RWMutex

	access   TicketAccessChecker
	observer HubObserver
	cfg      TicketHubConfig
	logger   logger.Interface
}

func NewTicketHub(access TicketAccessChecker, observer HubObserver, cfg TicketHubConfig, log logger.Interface) *TicketHub {
	if cfg.MaxConnsPerUser <= 0 {
		cfg.MaxConnsPerUser = DefaultMaxConnsPerUser
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultSendBuffer
	}
	return &TicketHub{
		conns:    make(map[string]*FeedConn),
		perUser:  make(map[string]int),
		access:   access,
		observer: observer,
		cfg:      cfg,
		logger:   log,
	}
}

// Register admits a connection unless the user already holds the maximum.
func (h *TicketHub) Register(actor authorization.Actor) (*FeedConn, error) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	if h.perUser[actor.UserID] >= h.cfg.MaxConnsPerUser {
		return nil, errors.NewRateLimitedError("too many realtime connections")
	}

	conn := &FeedConn{
		ID:          uuid.NewString(),
		Actor:       actor,
		Send:        make(chan ticketfeed.Frame, h.cfg.SendBuffer),
		ConnectedAt: time.Now(),
		done:        make(chan struct{}),
	}
	h.conns[conn.ID] = conn
	h.perUser[actor.UserID]++

	if h.observer != nil {
		h.observer.ConnectionOpened()
	}
	h.logger.Infow("realtime subscriber connected",
		"conn_id", conn.ID,
		"user_id", actor.UserID,
		"role", actor.Role.String(),
	)
	return conn, nil
}

// Unregister is safe to call more than once.
func (h *TicketHub) Unregister(conn *FeedConn) {
	h.connsMu.Lock()
	defer h.connsMu.Unlock()

	if _, ok := h.conns[conn.ID]; !ok {
		return
	}
	delete(h.conns, conn.ID)
	if h.perUser[conn.Actor.UserID]--; h.perUser[conn.Actor.UserID] <= 0 {
		delete(h.perUser, conn.Actor.UserID)
	}
	close(conn.Send)
	conn.kick()

	if h.observer != nil {
		h.observer.ConnectionClosed()
	}
	h.logger.Infow("realtime subscriber disconnected", "conn_id", conn.ID, "user_id", conn.Actor.UserID)
}

// Subscribe replaces the connection's filters. Every ticket-scoped filter
// is checked against the actor before any of them takes effect.
func (h *TicketHub) Subscribe(ctx context.Context, conn *FeedConn, filters []ticketfeed.Filter) error {
	if len(filters) == 0 {
		return errors.NewValidationError("at least one filter is required")
	}
	if len(filters) > maxFiltersPerConn {
		return errors.NewValidationError("too many filters")
	}
	for _, f := range filters {
		if !f.Valid() {
			return errors.NewValidationError("invalid filter", f.Table)
		}
		if f.TicketID != "" && h.access != nil {
			if err := h.access.CanViewTicket(ctx, conn.Actor, f.TicketID); err != nil {
				return err
			}
		}
	}

	conn.mu.Lock()
	conn.filters = append([]ticketfeed.Filter(nil), filters...)
	conn.mu.Unlock()

	h.logger.Debugw("realtime subscription updated", "conn_id", conn.ID, "filters", len(filters))
	return nil
}

// Dispatch routes one change. A subscriber whose buffer is full is
// disconnected rather than silently skipped, so its client resyncs.
func (h *TicketHub) Dispatch(change ticketfeed.Change) {
	frame := ticketfeed.FrameFromChange(change)

	h.connsMu.RLock()
	defer h.connsMu.RUnlock()

	for _, conn := range h.conns {
		if !conn.canSee(change) || !conn.matches(change.Table, change.TicketID) {
			continue
		}
		select {
		case conn.Send <- frame:
		default:
			if h.observer != nil {
				h.observer.FrameDropped()
			}
			h.logger.Warnw("realtime subscriber too slow, disconnecting",
				"conn_id", conn.ID,
				"user_id", conn.Actor.UserID,
			)
			conn.kick()
		}
	}
}

// Count reports open connections.
func (h *TicketHub) Count() int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	return len(h.conns)
}

// Shutdown asks every connection to close.
func (h *TicketHub) Shutdown() {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	for _, conn := range h.conns {
		conn.kick()
	}
}
