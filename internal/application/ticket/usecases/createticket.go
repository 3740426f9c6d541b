package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor       Actor
	Title       string
	Description string
	Priority    string
	Source      string
	// CustomerID lets staff open a ticket on a customer's behalf. It is
	// ignored for customers, who always own what they create.
	CustomerID string
	Tags       []string
	Metadata   map[string]any
}

type CreateTicketUseCase struct {
	ticketRepo ticket.Repository
	directory  DirectoryReader
	expander   *TicketExpander
	notifier   ChangeNotifier
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.Repository,
	directory DirectoryReader,
	expander *TicketExpander,
	notifier ChangeNotifier,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		directory:  directory,
		expander:   expander,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case",
		"title", cmd.Title,
		"actor_id", cmd.Actor.UserID,
	)

	customerID := cmd.Actor.UserID
	if cmd.Actor.IsStaff() && cmd.CustomerID != "" {
		customerID = cmd.CustomerID
	}
	if _, err := uc.directory.GetUser(ctx, customerID); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewValidationError("customer not found")
		}
		return nil, asAppError(err, "failed to load customer")
	}

	priority := vo.PriorityMedium
	if cmd.Priority != "" {
		p, err := vo.NewPriority(cmd.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		priority = p
	}
	source := vo.SourceWeb
	if cmd.Source != "" {
		s, err := vo.NewSource(cmd.Source)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		source = s
	}

	t, err := ticket.NewTicket(cmd.Title, cmd.Description, priority, source, customerID, cmd.Tags, cmd.Metadata)
	if err != nil {
		uc.logger.Warnw("invalid ticket", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Create(ctx, t); err != nil {
		uc.logger.Errorw("failed to save ticket", "error", err)
		return nil, asAppError(err, "failed to save ticket")
	}

	uc.notifier.TicketUpserted(ctx, t)

	uc.logger.Infow("ticket created successfully",
		"ticket_id", t.ID(),
		"customer_id", customerID,
		"priority", priority.String(),
	)
	return uc.expander.Expand(ctx, t, cmd.Actor, false)
}
