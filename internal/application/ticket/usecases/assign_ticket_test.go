package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	apperrors "github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type assignFixture struct {
	ticket   *ticket.Ticket
	agents   *mockAgentRepository
	teams    *mockTeamRepository
	notifier *mockChangeNotifier
	uc       *AssignTicketUseCase
}

func newAssignFixture(t *testing.T, agents ...*user.Agent) *assignFixture {
	t.Helper()
	tk := newTestTicket(t, customerActor.UserID)
	dir := seededDirectory(t)
	for _, a := range agents {
		dir.agents[a.ID()] = a
	}
	now := time.Now().UTC()
	billing := user.ReconstructTeam("team_billing", "Billing", now, now)
	dir.teams[billing.ID()] = billing
	teams := &mockTeamRepository{teams: map[string]*user.Team{billing.ID(): billing}}
	agentRepo := newMockAgentRepository(agents...)
	notifier := &mockChangeNotifier{}
	uc := NewAssignTicketUseCase(
		ticketRepoWith(tk), agentRepo, teams, &mockTxRunner{},
		newTestExpander(dir, &mockMessageRepository{}), notifier, logger.NewNop(),
	)
	return &assignFixture{ticket: tk, agents: agentRepo, teams: teams, notifier: notifier, uc: uc}
}

func TestAssignTicketUseCase_AssignsAgentAndTakesCapacity(t *testing.T) {
	f := newAssignFixture(t, newTestAgent(t, "agt_grace", agentActor.UserID, "team_support", 3, 1))

	result, err := f.uc.Execute(context.Background(), AssignTicketCommand{
		Actor:    adminActor,
		TicketID: f.ticket.ID(),
		AgentID:  "agt_grace",
	})

	require.NoError(t, err)
	assert.Equal(t, "open", result.Status, "new tickets open on assignment")
	require.NotNil(t, result.AssignedAgentID)
	assert.Equal(t, "agt_grace", *result.AssignedAgentID)
	require.NotNil(t, result.TeamID)
	assert.Equal(t, "team_support", *result.TeamID)
	assert.Equal(t, 2, f.agents.load(t, "agt_grace"))
	assert.Equal(t, []string{"ticket_upsert"}, f.notifier.kinds())
}

func TestAssignTicketUseCase_AgentAtCapacity(t *testing.T) {
	f := newAssignFixture(t, newTestAgent(t, "agt_busy", agentActor.UserID, "team_support", 2, 2))

	_, err := f.uc.Execute(context.Background(), AssignTicketCommand{
		Actor:    agentActor,
		TicketID: f.ticket.ID(),
		AgentID:  "agt_busy",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Nil(t, f.ticket.AssignedAgentID())
	assert.Empty(t, f.notifier.kinds())
}

func TestAssignTicketUseCase_ReassignMovesLoad(t *testing.T) {
	f := newAssignFixture(t,
		newTestAgent(t, "agt_a", "usr_a", "team_support", 5, 0),
		newTestAgent(t, "agt_b", "usr_b", "team_support", 5, 0),
	)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, AssignTicketCommand{Actor: agentActor, TicketID: f.ticket.ID(), AgentID: "agt_a"})
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, AssignTicketCommand{Actor: agentActor, TicketID: f.ticket.ID(), AgentID: "agt_b", TeamID: "team_billing"})
	require.NoError(t, err)

	assert.Equal(t, 0, f.agents.load(t, "agt_a"))
	assert.Equal(t, 1, f.agents.load(t, "agt_b"))
	assert.Equal(t, "team_billing", *f.ticket.TeamID())

	_, err = f.uc.Execute(ctx, AssignTicketCommand{Actor: agentActor, TicketID: f.ticket.ID(), Unassign: true})
	require.NoError(t, err)
	assert.Equal(t, 0, f.agents.load(t, "agt_b"))
	assert.Nil(t, f.ticket.AssignedAgentID())
}

func TestAssignTicketUseCase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     func(ticketID string) AssignTicketCommand
		wantErr func(error) bool
	}{
		{
			name: "customers cannot assign",
			cmd: func(id string) AssignTicketCommand {
				return AssignTicketCommand{Actor: customerActor, TicketID: id, AgentID: "agt_a"}
			},
			wantErr: apperrors.IsForbiddenError,
		},
		{
			name: "needs an agent or team",
			cmd: func(id string) AssignTicketCommand {
				return AssignTicketCommand{Actor: agentActor, TicketID: id}
			},
			wantErr: apperrors.IsValidationError,
		},
		{
			name: "unknown team",
			cmd: func(id string) AssignTicketCommand {
				return AssignTicketCommand{Actor: agentActor, TicketID: id, TeamID: "team_ghost"}
			},
			wantErr: apperrors.IsValidationError,
		},
		{
			name: "unknown agent",
			cmd: func(id string) AssignTicketCommand {
				return AssignTicketCommand{Actor: agentActor, TicketID: id, AgentID: "agt_ghost"}
			},
			wantErr: apperrors.IsNotFoundError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAssignFixture(t, newTestAgent(t, "agt_a", "usr_a", "team_support", 5, 0))

			_, err := f.uc.Execute(context.Background(), tt.cmd(f.ticket.ID()))

			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
		})
	}
}

func TestAssignTicketUseCase_TeamOnly(t *testing.T) {
	f := newAssignFixture(t)

	result, err := f.uc.Execute(context.Background(), AssignTicketCommand{
		Actor:    agentActor,
		TicketID: f.ticket.ID(),
		TeamID:   "team_billing",
	})

	require.NoError(t, err)
	assert.Nil(t, result.AssignedAgentID)
	assert.Equal(t, "new", result.Status)
	require.NotNil(t, result.Team)
	assert.Equal(t, "Billing", result.Team.Name)
}
