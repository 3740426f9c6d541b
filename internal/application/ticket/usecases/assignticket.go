package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// AssignTicketCommand routes a ticket. With AgentID set the agent takes the
// ticket (and their team unless TeamID overrides it); with only TeamID the
// ticket moves to that queue; Unassign drops the current agent.
type AssignTicketCommand struct {
	Actor    Actor
	TicketID string
	AgentID  string
	TeamID   string
	Unassign bool
}

type AssignTicketUseCase struct {
	ticketRepo ticket.Repository
	agentRepo  user.AgentRepository
	teamRepo   user.TeamRepository
	txManager  TransactionRunner
	expander   *TicketExpander
	notifier   ChangeNotifier
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.Repository,
	agentRepo user.AgentRepository,
	teamRepo user.TeamRepository,
	txManager TransactionRunner,
	expander *TicketExpander,
	notifier ChangeNotifier,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		agentRepo:  agentRepo,
		teamRepo:   teamRepo,
		txManager:  txManager,
		expander:   expander,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"agent_id", cmd.AgentID,
		"team_id", cmd.TeamID,
		"unassign", cmd.Unassign,
	)

	if !cmd.Actor.IsStaff() {
		return nil, errors.NewForbiddenError("only staff can assign tickets")
	}
	if !cmd.Unassign && cmd.AgentID == "" && cmd.TeamID == "" {
		return nil, errors.NewValidationError("agent or team is required")
	}

	var t *ticket.Ticket
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
		if err != nil {
			return err
		}
		counts := !t.Status().IsTerminal()
		previous := t.AssignedAgentID()

		switch {
		case cmd.Unassign:
			if previous == nil {
				return nil
			}
			if counts {
				if err := adjustAgentLoad(ctx, uc.agentRepo, *previous, false); err != nil {
					return err
				}
			}
			t.Unassign()

		case cmd.AgentID != "":
			agent, err := uc.agentRepo.GetByID(ctx, cmd.AgentID)
			if err != nil {
				return asAppError(err, "failed to load agent")
			}
			teamID := agent.TeamID()
			if cmd.TeamID != "" {
				if err := uc.ensureTeam(ctx, cmd.TeamID); err != nil {
					return err
				}
				teamID = cmd.TeamID
			}
			sameAgent := previous != nil && *previous == agent.ID()
			if counts && !sameAgent {
				if err := adjustAgentLoad(ctx, uc.agentRepo, agent.ID(), true); err != nil {
					return err
				}
				if previous != nil {
					if err := adjustAgentLoad(ctx, uc.agentRepo, *previous, false); err != nil {
						return err
					}
				}
			}
			var team *string
			if teamID != "" {
				team = &teamID
			}
			if err := t.AssignTo(agent.ID(), team); err != nil {
				return errors.NewValidationError(err.Error())
			}

		default:
			if err := uc.ensureTeam(ctx, cmd.TeamID); err != nil {
				return err
			}
			if err := t.AssignTeam(cmd.TeamID); err != nil {
				return errors.NewValidationError(err.Error())
			}
		}

		return uc.ticketRepo.Update(ctx, t)
	})
	if err != nil {
		uc.logger.Warnw("failed to assign ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, asAppError(err, "failed to assign ticket")
	}

	uc.notifier.TicketUpserted(ctx, t)

	uc.logger.Infow("ticket assigned successfully", "ticket_id", t.ID())
	return uc.expander.Expand(ctx, t, cmd.Actor, false)
}

func (uc *AssignTicketUseCase) ensureTeam(ctx context.Context, teamID string) error {
	if _, err := uc.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.IsNotFoundError(err) {
			return errors.NewValidationError("team not found")
		}
		return asAppError(err, "failed to load team")
	}
	return nil
}
