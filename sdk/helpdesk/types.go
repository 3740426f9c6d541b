package helpdesk

import (
	"encoding/json"
	"time"
)

// User is the public summary of a customer or staff member.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Agent struct {
	ID   string `json:"id"`
	User *User  `json:"user,omitempty"`
}

// Ticket is the expanded ticket as the API returns it.
type Ticket struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	StatusLabel     string         `json:"status_label"`
	Priority        string         `json:"priority"`
	PriorityLabel   string         `json:"priority_label"`
	Source          string         `json:"source"`
	CustomerID      string         `json:"customer_id"`
	TeamID          *string        `json:"team_id,omitempty"`
	AssignedAgentID *string        `json:"assigned_agent_id,omitempty"`
	Tags            []string       `json:"tags"`
	Metadata        map[string]any `json:"metadata"`
	SLADeadline     *time.Time     `json:"sla_deadline,omitempty"`
	FirstResponseAt *time.Time     `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	IsOverdue       bool           `json:"is_overdue"`
	Version         int            `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Customer        *User          `json:"customer,omitempty"`
	Team            *Team          `json:"team,omitempty"`
	AssignedAgent   *Agent         `json:"assigned_agent,omitempty"`
	Messages        []Message      `json:"messages,omitempty"`
}

// Key implements Keyed.
func (t Ticket) Key() string { return t.ID }

// Message is one entry in a ticket thread.
type Message struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	SenderID    string    `json:"sender_id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	IsInternal  bool      `json:"is_internal"`
	Attachments []string  `json:"attachments"`
	Sender      *User     `json:"sender,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key implements Keyed.
func (m Message) Key() string { return m.ID }

// Attachment is an uploaded file. Path is what a message references.
type Attachment struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	SizeLabel    string    `json:"size_label"`
	IsImage      bool      `json:"is_image"`
	TicketID     string    `json:"ticket_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignedURL is a short-lived download or preview link.
type SignedURL struct {
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	ContentType string    `json:"content_type"`
	FileName    string    `json:"file_name"`
}

// TicketPage is one page of GET /tickets.
type TicketPage struct {
	Items      []Ticket `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// ListTicketsParams filters GET /tickets. Zero values are omitted.
type ListTicketsParams struct {
	Status          string
	Priority        string
	AssignedAgentID string
	TeamID          string
	Tag             string
	Search          string
	Page            int
	PageSize        int
}

type CreateTicketInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	Source      string         `json:"source,omitempty"`
	CustomerID  string         `json:"customer_id,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type AssignInput struct {
	AgentID  string `json:"agent_id,omitempty"`
	TeamID   string `json:"team_id,omitempty"`
	Unassign bool   `json:"unassign,omitempty"`
}

// SendMessageInput references uploaded attachments by storage path.
type SendMessageInput struct {
	Content     string   `json:"content"`
	IsInternal  bool     `json:"is_internal"`
	Attachments []string `json:"attachments,omitempty"`
}

// Feed tables and operations.
const (
	TableTickets  = "tickets"
	TableMessages = "ticket_messages"

	OpUpsert = "upsert"
	OpDelete = "delete"
)

const (
	frameChange     = "change"
	frameSubscribed = "subscribed"
	frameError      = "error"
	frameSubscribe  = "subscribe"
)

// Filter selects a table, optionally narrowed to one ticket. Message
// subscriptions must name a ticket.
type Filter struct {
	Table    string `json:"table"`
	TicketID string `json:"ticket_id,omitempty"`
}

// frame is the websocket envelope in both directions.
type frame struct {
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

// Change is one row change pushed by the server. Data holds the expanded
// Ticket or Message for upserts and is empty for deletes.
type Change struct {
	Table    string
	Op       string
	RowID    string
	TicketID string
	Data     json.RawMessage
	At       time.Time
}

// Ticket decodes Data for a tickets change.
func (c Change) Ticket() (Ticket, error) {
	var t Ticket
	err := json.Unmarshal(c.Data, &t)
	return t, err
}

// Message decodes Data for a messages change.
func (c Change) Message() (Message, error) {
	var m Message
	err := json.Unmarshal(c.Data, &m)
	return m, err
}

// EventType says what a FeedEvent carries.
type EventType int

const (
	EventChange EventType = iota
	EventConnected
	EventDisconnected
	EventRejected
)

// FeedEvent is delivered on Feed.Events. Change is set for EventChange, Err
// for EventDisconnected and EventRejected.
type FeedEvent struct {
	Type   EventType
	Change Change
	Err    error
}
