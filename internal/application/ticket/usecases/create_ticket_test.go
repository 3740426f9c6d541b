package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	apperrors "github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func TestCreateTicketUseCase_Execute(t *testing.T) {
	tests := []struct {
		name         string
		cmd          CreateTicketCommand
		createErr    error
		wantErr      func(error) bool
		wantCustomer string
		wantPriority string
	}{
		{
			name: "customer creates ticket for themselves",
			cmd: CreateTicketCommand{
				Actor:      customerActor,
				Title:      "  Cannot log in  ",
				CustomerID: otherCustomer.UserID,
			},
			wantCustomer: customerActor.UserID,
			wantPriority: "medium",
		},
		{
			name: "agent opens ticket on behalf of customer",
			cmd: CreateTicketCommand{
				Actor:      agentActor,
				Title:      "Phone call follow-up",
				Priority:   "urgent",
				Source:     "phone",
				CustomerID: otherCustomer.UserID,
			},
			wantCustomer: otherCustomer.UserID,
			wantPriority: "urgent",
		},
		{
			name:    "invalid priority",
			cmd:     CreateTicketCommand{Actor: customerActor, Title: "x", Priority: "whenever"},
			wantErr: apperrors.IsValidationError,
		},
		{
			name:    "empty title",
			cmd:     CreateTicketCommand{Actor: customerActor, Title: "   "},
			wantErr: apperrors.IsValidationError,
		},
		{
			name:    "unknown customer",
			cmd:     CreateTicketCommand{Actor: agentActor, Title: "x", CustomerID: "usr_ghost"},
			wantErr: apperrors.IsValidationError,
		},
		{
			name:      "repository failure",
			cmd:       CreateTicketCommand{Actor: customerActor, Title: "x"},
			createErr: errors.New("disk full"),
			wantErr:   apperrors.IsAppError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := seededDirectory(t)
			notifier := &mockChangeNotifier{}
			var saved *ticket.Ticket
			repo := &mockTicketRepository{
				CreateFunc: func(_ context.Context, tk *ticket.Ticket) error {
					saved = tk
					return tt.createErr
				},
			}
			uc := NewCreateTicketUseCase(repo, dir, newTestExpander(dir, &mockMessageRepository{}), notifier, logger.NewNop())

			result, err := uc.Execute(context.Background(), tt.cmd)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error type: %v", err)
				assert.Empty(t, notifier.kinds())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, saved.ID(), result.ID)
			assert.Equal(t, tt.wantCustomer, result.CustomerID)
			assert.Equal(t, tt.wantPriority, result.Priority)
			assert.Equal(t, "new", result.Status)
			require.NotNil(t, result.Customer)
			assert.Equal(t, tt.wantCustomer, result.Customer.ID)
			assert.NotNil(t, result.SLADeadline)
			assert.Equal(t, []string{"ticket_upsert"}, notifier.kinds())
		})
	}
}

func TestCreateTicketUseCase_TrimsTitle(t *testing.T) {
	dir := seededDirectory(t)
	uc := NewCreateTicketUseCase(&mockTicketRepository{}, dir, newTestExpander(dir, &mockMessageRepository{}), &mockChangeNotifier{}, logger.NewNop())

	result, err := uc.Execute(context.Background(), CreateTicketCommand{Actor: customerActor, Title: "  Refund  "})

	require.NoError(t, err)
	assert.Equal(t, "Refund", result.Title)
	assert.Equal(t, "Medium", result.PriorityLabel)
}
