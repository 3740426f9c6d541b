package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

type Actor = authorization.Actor

// systemActor expands payloads that are filtered later by the realtime hub.
var systemActor = Actor{Role: authorization.RoleAdmin}

// DirectoryReader resolves the people and teams a ticket refers to. The
// production implementation is cached.
type DirectoryReader interface {
	GetUser(ctx context.Context, userID string) (*user.User, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]*user.User, error)
	GetTeam(ctx context.Context, teamID string) (*user.Team, error)
	GetAgent(ctx context.Context, agentID string) (*user.Agent, error)
}

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ChangeNotifier announces committed writes to realtime subscribers.
// Implementations log failures instead of returning them.
type ChangeNotifier interface {
	TicketUpserted(ctx context.Context, t *ticket.Ticket)
	TicketDeleted(ctx context.Context, t *ticket.Ticket)
	MessageUpserted(ctx context.Context, t *ticket.Ticket, m *ticket.Message)
	MessageDeleted(ctx context.Context, t *ticket.Ticket, m *ticket.Message)
}

// ReplyNotifier tells a customer that staff answered their ticket.
type ReplyNotifier interface {
	NotifyReply(ctx context.Context, t *ticket.Ticket, m *ticket.Message, customer, sender *user.User) error
}

// BlobRemover deletes stored attachment content.
type BlobRemover interface {
	Delete(ctx context.Context, storagePath string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// loadVisibleTicket fetches a ticket and enforces that the actor may see it.
func loadVisibleTicket(ctx context.Context, repo ticket.Repository, ticketID string, actor Actor) (*ticket.Ticket, error) {
	if ticketID == "" {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	t, err := repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, asAppError(err, "failed to load ticket")
	}
	if !t.CanBeViewedBy(actor.UserID, actor.IsStaff()) {
		return nil, errors.NewForbiddenError("access denied to this ticket")
	}
	return t, nil
}

func asAppError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(message, err.Error())
}

// adjustAgentLoad keeps an agent's open ticket counter in step with
// assignments and terminal status changes. The repository applies the
// change as one conditional write so concurrent assignments cannot
// overbook an agent.
func adjustAgentLoad(ctx context.Context, agents user.AgentRepository, agentID string, take bool) error {
	var err error
	if take {
		err = agents.TakeTicket(ctx, agentID)
	} else {
		err = agents.ReleaseTicket(ctx, agentID)
	}
	if err != nil {
		return asAppError(err, "failed to update agent load")
	}
	return nil
}
