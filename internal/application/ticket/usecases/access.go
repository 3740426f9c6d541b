package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
)

// TicketAccess answers whether an actor may watch a ticket's changes.
type TicketAccess struct {
	ticketRepo ticket.Repository
}

func NewTicketAccess(ticketRepo ticket.Repository) *TicketAccess {
	return &TicketAccess{ticketRepo: ticketRepo}
}

func (a *TicketAccess) CanViewTicket(ctx context.Context, actor Actor, ticketID string) error {
	_, err := loadVisibleTicket(ctx, a.ticketRepo, ticketID, actor)
	return err
}
