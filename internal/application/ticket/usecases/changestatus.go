package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type ChangeStatusCommand struct {
	Actor    Actor
	TicketID string
	Status   string
}

// ChangeStatusUseCase moves a ticket through its lifecycle. Customers may
// only close or reopen their own tickets.
type ChangeStatusUseCase struct {
	ticketRepo ticket.Repository
	agentRepo  user.AgentRepository
	txManager  TransactionRunner
	expander   *TicketExpander
	notifier   ChangeNotifier
	logger     logger.Interface
}

func NewChangeStatusUseCase(
	ticketRepo ticket.Repository,
	agentRepo user.AgentRepository,
	txManager TransactionRunner,
	expander *TicketExpander,
	notifier ChangeNotifier,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		ticketRepo: ticketRepo,
		agentRepo:  agentRepo,
		txManager:  txManager,
		expander:   expander,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing change status use case",
		"ticket_id", cmd.TicketID,
		"status", cmd.Status,
		"actor_id", cmd.Actor.UserID,
	)

	next, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !cmd.Actor.IsStaff() && next != vo.StatusClosed && next != vo.StatusOpen {
		return nil, errors.NewForbiddenError("customers can only close or reopen tickets")
	}

	var t *ticket.Ticket
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
		if err != nil {
			return err
		}
		wasTerminal := t.Status().IsTerminal()
		if err := t.ChangeStatus(next); err != nil {
			return errors.NewValidationError(err.Error())
		}

		if agentID := t.AssignedAgentID(); agentID != nil && wasTerminal != next.IsTerminal() {
			if err := adjustAgentLoad(ctx, uc.agentRepo, *agentID, wasTerminal); err != nil {
				return err
			}
		}
		return uc.ticketRepo.Update(ctx, t)
	})
	if err != nil {
		uc.logger.Warnw("failed to change ticket status", "ticket_id", cmd.TicketID, "error", err)
		return nil, asAppError(err, "failed to change ticket status")
	}

	uc.notifier.TicketUpserted(ctx, t)

	uc.logger.Infow("ticket status changed successfully", "ticket_id", t.ID(), "status", next.String())
	return uc.expander.Expand(ctx, t, cmd.Actor, false)
}
