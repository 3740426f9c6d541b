package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type ChangePriorityCommand struct {
	Actor    Actor
	TicketID string
	Priority string
}

type ChangePriorityUseCase struct {
	ticketRepo ticket.Repository
	expander   *TicketExpander
	notifier   ChangeNotifier
	logger     logger.Interface
}

func NewChangePriorityUseCase(
	ticketRepo ticket.Repository,
	expander *TicketExpander,
	notifier ChangeNotifier,
	logger logger.Interface,
) *ChangePriorityUseCase {
	return &ChangePriorityUseCase{
		ticketRepo: ticketRepo,
		expander:   expander,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *ChangePriorityUseCase) Execute(ctx context.Context, cmd ChangePriorityCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing change priority use case", "ticket_id", cmd.TicketID, "priority", cmd.Priority)

	if !cmd.Actor.IsStaff() {
		return nil, errors.NewForbiddenError("only staff can change priority")
	}
	next, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	t, err := loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}
	if err := t.ChangePriority(next); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket priority", "ticket_id", t.ID(), "error", err)
		return nil, asAppError(err, "failed to update ticket priority")
	}

	uc.notifier.TicketUpserted(ctx, t)

	uc.logger.Infow("ticket priority changed successfully", "ticket_id", t.ID(), "priority", next.String())
	return uc.expander.Expand(ctx, t, cmd.Actor, false)
}
