package helpdesk

import (
	"context"
	"errors"
	"fmt"
)

// Messages shown to the user. Details stay in the returned errors.
const (
	ErrTextLoadTickets = "Failed to load tickets"
	ErrTextLoadTicket  = "Failed to load ticket"
	ErrTextSend        = "Failed to send message"
	ErrTextEmpty       = "Write a message or attach a file"
)

var ErrNoTicketSelected = errors.New("no ticket selected")

// API is the part of *Client the inbox uses.
type API interface {
	MessageSender
	ListTickets(ctx context.Context, params ListTicketsParams) (*TicketPage, error)
	GetTicket(ctx context.Context, ticketID string) (*Ticket, error)
}

// Inbox is the view-model of a support inbox: the ticket list, the
// selected ticket with its thread, and a composer for it. Feed changes
// are folded in with Apply. It is not safe for concurrent use; UIs that
// fetch on other goroutines hand results back through the Show methods.
type Inbox struct {
	api    API
	params ListTicketsParams

	tickets  *LiveList[Ticket]
	selected *Ticket
	// newest first, like tickets
	thread   *LiveList[Message]
	composer *Composer

	errText string
}

func NewInbox(api API, params ListTicketsParams) *Inbox {
	return &Inbox{
		api:     api,
		params:  params,
		tickets: NewLiveList[Ticket](nil),
		thread:  NewLiveList[Message](nil),
	}
}

// Load refetches the ticket list, and the selected ticket if any.
func (in *Inbox) Load(ctx context.Context) error {
	if err := in.ShowTickets(in.api.ListTickets(ctx, in.params)); err != nil {
		return err
	}
	if in.selected != nil {
		return in.Select(ctx, in.selected.ID)
	}
	return nil
}

// ShowTickets applies the result of a ticket list fetch done elsewhere.
// A failed fetch keeps the current list and sets Err.
func (in *Inbox) ShowTickets(page *TicketPage, err error) error {
	if err != nil {
		in.errText = ErrTextLoadTickets
		return err
	}
	in.tickets.Reset(page.Items)
	in.errText = ""
	return nil
}

// Select loads a ticket with its thread and opens a composer for it.
func (in *Inbox) Select(ctx context.Context, ticketID string) error {
	return in.ShowTicket(in.api.GetTicket(ctx, ticketID))
}

// ShowTicket applies the result of a ticket fetch done elsewhere. The
// composer is kept when the same ticket is shown again.
func (in *Inbox) ShowTicket(t *Ticket, err error) error {
	if err != nil {
		in.errText = ErrTextLoadTicket
		return err
	}

	msgs := t.Messages
	t.Messages = nil
	in.selected = t
	in.thread.Reset(reversed(msgs))
	if in.composer == nil || in.composer.TicketID() != t.ID {
		in.composer = NewComposer(in.api, t.ID)
	}
	in.errText = ""
	return nil
}

// Deselect closes the selected ticket.
func (in *Inbox) Deselect() {
	in.selected = nil
	in.thread.Reset(nil)
	in.composer = nil
}

// Send submits the composer. The new message is merged into the thread
// without waiting for the feed.
func (in *Inbox) Send(ctx context.Context) error {
	if in.composer == nil {
		return ErrNoTicketSelected
	}
	return in.ShowSendResult(in.composer.Submit(ctx))
}

// ShowSendResult applies the outcome of Composer.Submit.
func (in *Inbox) ShowSendResult(msg *Message, err error) error {
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			in.errText = ErrTextEmpty
		} else {
			in.errText = ErrTextSend
		}
		return err
	}
	if in.selected != nil && msg.TicketID == in.selected.ID {
		in.thread.Merge(*msg)
	}
	in.errText = ""
	return nil
}

// Apply folds one feed change into the view. Upserts merge, deletes remove.
// Message changes for tickets other than the selected one are ignored.
func (in *Inbox) Apply(ch Change) error {
	switch ch.Table {
	case TableTickets:
		return in.applyTicket(ch)
	case TableMessages:
		return in.applyMessage(ch)
	}
	return nil
}

func (in *Inbox) applyTicket(ch Change) error {
	if ch.Op == OpDelete {
		in.tickets.Remove(ch.RowID)
		if in.selected != nil && in.selected.ID == ch.RowID {
			in.Deselect()
		}
		return nil
	}

	t, err := ch.Ticket()
	if err != nil {
		return fmt.Errorf("decode ticket change %s: %w", ch.RowID, err)
	}
	in.tickets.Merge(t)
	if in.selected != nil && in.selected.ID == t.ID {
		t.Messages = nil
		in.selected = &t
	}
	return nil
}

func (in *Inbox) applyMessage(ch Change) error {
	if in.selected == nil || in.selected.ID != ch.TicketID {
		return nil
	}
	if ch.Op == OpDelete {
		in.thread.Remove(ch.RowID)
		return nil
	}

	m, err := ch.Message()
	if err != nil {
		return fmt.Errorf("decode message change %s: %w", ch.RowID, err)
	}
	in.thread.Merge(m)
	return nil
}

// Filters is the feed subscription matching the current view.
func (in *Inbox) Filters() []Filter {
	filters := []Filter{{Table: TableTickets}}
	if in.selected != nil {
		filters = append(filters, Filter{Table: TableMessages, TicketID: in.selected.ID})
	}
	return filters
}

// Tickets returns the list newest first.
func (in *Inbox) Tickets() []Ticket {
	return in.tickets.Items()
}

// Selected returns the open ticket or nil.
func (in *Inbox) Selected() *Ticket {
	return in.selected
}

// Thread returns the selected ticket's messages oldest first.
func (in *Inbox) Thread() []Message {
	return reversed(in.thread.Items())
}

// Composer is nil when no ticket is selected.
func (in *Inbox) Composer() *Composer {
	return in.composer
}

// Err is the last user-facing error, or "".
func (in *Inbox) Err() string {
	return in.errText
}

func (in *Inbox) ClearErr() {
	in.errText = ""
}

func reversed[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}
