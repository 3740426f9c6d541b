package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	apperrors "github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func TestGetTicketUseCase_Execute(t *testing.T) {
	tk := newTestTicket(t, customerActor.UserID)

	public, err := ticket.NewMessage(tk.ID(), customerActor.UserID, "hello", false, nil)
	require.NoError(t, err)
	note, err := ticket.NewMessage(tk.ID(), agentActor.UserID, "VIP, be nice", true, nil)
	require.NoError(t, err)

	tests := []struct {
		name         string
		actor        Actor
		wantErr      func(error) bool
		wantInternal bool
		wantMessages int
	}{
		{name: "owner sees public thread", actor: customerActor, wantMessages: 1},
		{name: "staff sees internal notes", actor: agentActor, wantInternal: true, wantMessages: 2},
		{name: "other customer is denied", actor: otherCustomer, wantErr: apperrors.IsForbiddenError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var includeInternal bool
			messages := &mockMessageRepository{
				ListByTicketFunc: func(_ context.Context, _ string, internal bool) ([]*ticket.Message, error) {
					includeInternal = internal
					if internal {
						return []*ticket.Message{public, note}, nil
					}
					return []*ticket.Message{public}, nil
				},
			}
			dir := seededDirectory(t)
			uc := NewGetTicketUseCase(ticketRepoWith(tk), newTestExpander(dir, messages), logger.NewNop())

			result, err := uc.Execute(context.Background(), GetTicketQuery{Actor: tt.actor, TicketID: tk.ID(), IncludeMessages: true})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInternal, includeInternal)
			require.Len(t, result.Messages, tt.wantMessages)
			assert.Equal(t, "Ada Lovelace", result.Messages[0].Sender.Name)
		})
	}
}

func TestGetTicketUseCase_NotFound(t *testing.T) {
	dir := seededDirectory(t)
	uc := NewGetTicketUseCase(ticketRepoWith(), newTestExpander(dir, &mockMessageRepository{}), logger.NewNop())

	_, err := uc.Execute(context.Background(), GetTicketQuery{Actor: agentActor, TicketID: "tkt_missing"})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetTicketUseCase_WithoutMessagesSkipsThread(t *testing.T) {
	tk := newTestTicket(t, customerActor.UserID)
	called := false
	messages := &mockMessageRepository{
		ListByTicketFunc: func(context.Context, string, bool) ([]*ticket.Message, error) {
			called = true
			return nil, nil
		},
	}
	dir := seededDirectory(t)
	uc := NewGetTicketUseCase(ticketRepoWith(tk), newTestExpander(dir, messages), logger.NewNop())

	result, err := uc.Execute(context.Background(), GetTicketQuery{Actor: customerActor, TicketID: tk.ID()})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Nil(t, result.Messages)
}

func TestTicketAccess_CanViewTicket(t *testing.T) {
	tk := newTestTicket(t, customerActor.UserID)
	access := NewTicketAccess(ticketRepoWith(tk))
	ctx := context.Background()

	assert.NoError(t, access.CanViewTicket(ctx, customerActor, tk.ID()))
	assert.NoError(t, access.CanViewTicket(ctx, agentActor, tk.ID()))
	assert.True(t, apperrors.IsForbiddenError(access.CanViewTicket(ctx, otherCustomer, tk.ID())))
	assert.True(t, apperrors.IsNotFoundError(access.CanViewTicket(ctx, agentActor, "tkt_missing")))
	assert.True(t, apperrors.IsValidationError(access.CanViewTicket(ctx, agentActor, "")))
}
