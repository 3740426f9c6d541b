// Package ticketfeed defines the realtime change-feed protocol shared by the
// Redis fan-out, the websocket hub and the handlers.
package ticketfeed

import "encoding/json"

// Tables a client can subscribe to.
const (
	TableTickets  = "tickets"
	TableMessages = "ticket_messages"
)

// Change operations. Deletes carry no row data.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// Message types.
const (
	// Server -> client.
	MsgTypeChange     = "change"
	MsgTypeSubscribed = "subscribed"
	MsgTypeError      = "error"

	// Client -> server.
	MsgTypeSubscribe = "subscribe"
)

// Change is what the application publishes after a commit. Audience fields
// decide which connections may see it and are never sent to clients.
type Change struct {
	Table      string          `json:"table"`
	Op         string          `json:"op"`
	RowID      string          `json:"row_id"`
	TicketID   string          `json:"ticket_id"`
	CustomerID string          `json:"customer_id"`
	Internal   bool            `json:"internal,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	// Origin identifies the publishing instance so it can skip its own
	// echo from Redis.
	Origin string `json:"origin,omitempty"`
}

// Filter is one table/row subscription. An empty TicketID on the messages
// table is rejected by the hub.
type Filter struct {
	Table    string `json:"table"`
	TicketID string `json:"ticket_id,omitempty"`
}

// Matches reports whether a change on table/ticketID falls under f.
func (f Filter) Matches(table, ticketID string) bool {
	if f.Table != table {
		return false
	}
	return f.TicketID == "" || f.TicketID == ticketID
}

// Valid rejects unknown tables and unscoped message subscriptions.
func (f Filter) Valid() bool {
	switch f.Table {
	case TableTickets:
		return true
	case TableMessages:
		return f.TicketID != ""
	}
	return false
}

// Frame is the websocket envelope in both directions.
type Frame struct {
	Type      string          `json:"type"`
	Table     string          `json:"table,omitempty"`
	Op        string          `json:"op,omitempty"`
	RowID     string          `json:"row_id,omitempty"`
	TicketID  string          `json:"ticket_id,omitempty"`
	Filters   []Filter        `json:"filters,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// FrameFromChange strips the audience fields.
func FrameFromChange(c Change) Frame {
	return Frame{
		Type:      MsgTypeChange,
		Table:     c.Table,
		Op:        c.Op,
		RowID:     c.RowID,
		TicketID:  c.TicketID,
		Data:      c.Data,
		Timestamp: c.Timestamp,
	}
}
