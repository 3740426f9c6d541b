package ticket

import (
	"context"
	"time"

	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
)

type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, ticketID string) error
	GetByID(ctx context.Context, ticketID string) (*Ticket, error)
	List(ctx context.Context, filter Filter) ([]*Ticket, int64, error)
	// ListOverdue returns open work whose SLA deadline passed before now
	// without a first response.
	ListOverdue(ctx context.Context, now time.Time) ([]*Ticket, error)
}

// Filter narrows a ticket listing. Search matches title, description and
// the customer's name or email, case-insensitively.
type Filter struct {
	Status          *vo.TicketStatus
	Priority        *vo.Priority
	CustomerID      *string
	AssignedAgentID *string
	TeamID          *string
	Tag             string
	Search          string
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, messageID string) (*Message, error)
	// ListByTicket returns the thread oldest first.
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*Message, error)
	Delete(ctx context.Context, messageID string) error
	DeleteByTicket(ctx context.Context, ticketID string) error
}
