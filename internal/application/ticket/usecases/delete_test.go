package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	apperrors "github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func TestDeleteTicketUseCase_Execute(t *testing.T) {
	t.Run("only admins", func(t *testing.T) {
		tk := newTestTicket(t, customerActor.UserID)
		uc := NewDeleteTicketUseCase(ticketRepoWith(tk), &mockMessageRepository{}, &mockAttachmentRepository{},
			newMockAgentRepository(), &mockTxRunner{}, &mockBlobRemover{}, &mockChangeNotifier{}, logger.NewNop())

		err := uc.Execute(context.Background(), DeleteTicketCommand{Actor: agentActor, TicketID: tk.ID()})

		require.Error(t, err)
		assert.True(t, apperrors.IsForbiddenError(err))
	})

	t.Run("removes thread files and load", func(t *testing.T) {
		tk := newTestTicket(t, customerActor.UserID)
		require.NoError(t, tk.AssignTo("agt_grace", nil))
		agents := newMockAgentRepository(newTestAgent(t, "agt_grace", agentActor.UserID, "team_support", 5, 3))
		upload := stagedUpload(t, tk.ID(), "log.txt")

		var deletedAttachments, deletedTickets []string
		messagesCleared := false
		tickets := ticketRepoWith(tk)
		tickets.DeleteFunc = func(_ context.Context, id string) error {
			deletedTickets = append(deletedTickets, id)
			return nil
		}
		attachments := &mockAttachmentRepository{
			ListByTicketFunc: func(context.Context, string) ([]*attachment.Attachment, error) {
				return []*attachment.Attachment{upload}, nil
			},
			DeleteFunc: func(_ context.Context, id string) error {
				deletedAttachments = append(deletedAttachments, id)
				return nil
			},
		}
		messages := &mockMessageRepository{
			DeleteByTicketFunc: func(context.Context, string) error {
				messagesCleared = true
				return nil
			},
		}
		blobs := &mockBlobRemover{}
		notifier := &mockChangeNotifier{}
		uc := NewDeleteTicketUseCase(tickets, messages, attachments, agents, &mockTxRunner{}, blobs, notifier, logger.NewNop())

		err := uc.Execute(context.Background(), DeleteTicketCommand{Actor: adminActor, TicketID: tk.ID()})

		require.NoError(t, err)
		assert.Equal(t, []string{tk.ID()}, deletedTickets)
		assert.Equal(t, []string{upload.ID()}, deletedAttachments)
		assert.True(t, messagesCleared)
		assert.Equal(t, []string{attachment.TicketPrefix(tk.ID())}, blobs.prefixes)
		assert.Equal(t, 2, agents.load(t, "agt_grace"))
		assert.Equal(t, []string{"ticket_delete"}, notifier.kinds())
	})
}

func TestDeleteMessageUseCase_Execute(t *testing.T) {
	tk := newTestTicket(t, customerActor.UserID)
	upload := stagedUpload(t, tk.ID(), "photo.png")
	reply, err := ticket.NewMessage(tk.ID(), customerActor.UserID, "see photo", false, []string{upload.StoragePath()})
	require.NoError(t, err)
	note, err := ticket.NewMessage(tk.ID(), agentActor.UserID, "internal", true, nil)
	require.NoError(t, err)

	byID := map[string]*ticket.Message{reply.ID(): reply, note.ID(): note}
	newUseCase := func(blobs *mockBlobRemover, notifier *mockChangeNotifier) *DeleteMessageUseCase {
		messages := &mockMessageRepository{
			GetByIDFunc: func(_ context.Context, id string) (*ticket.Message, error) {
				if m, ok := byID[id]; ok {
					return m, nil
				}
				return nil, apperrors.NewNotFoundError("message not found")
			},
		}
		attachments := &mockAttachmentRepository{
			ListForEntityFunc: func(_ context.Context, et attachment.EntityType, id string) ([]*attachment.Attachment, error) {
				if et == attachment.EntityMessage && id == reply.ID() {
					return []*attachment.Attachment{upload}, nil
				}
				return nil, nil
			},
		}
		return NewDeleteMessageUseCase(ticketRepoWith(tk), messages, attachments, &mockTxRunner{}, blobs, notifier, logger.NewNop())
	}

	tests := []struct {
		name      string
		actor     Actor
		messageID string
		wantErr   func(error) bool
		wantBlobs []string
	}{
		{name: "sender deletes own reply", actor: customerActor, messageID: reply.ID(), wantBlobs: []string{upload.StoragePath()}},
		{name: "staff deletes any message", actor: agentActor, messageID: reply.ID(), wantBlobs: []string{upload.StoragePath()}},
		{name: "customer cannot see internal note", actor: customerActor, messageID: note.ID(), wantErr: apperrors.IsNotFoundError},
		{name: "unknown message", actor: agentActor, messageID: "msg_ghost", wantErr: apperrors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := &mockBlobRemover{}
			notifier := &mockChangeNotifier{}

			err := newUseCase(blobs, notifier).Execute(context.Background(), DeleteMessageCommand{
				Actor:     tt.actor,
				TicketID:  tk.ID(),
				MessageID: tt.messageID,
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Empty(t, notifier.kinds())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBlobs, blobs.deleted)
			assert.Equal(t, []string{"message_delete"}, notifier.kinds())
		})
	}
}

func TestScanOverdueUseCase_Execute(t *testing.T) {
	tk := newTestTicket(t, customerActor.UserID)
	var observed int
	repo := &mockTicketRepository{
		ListOverdueFunc: func(context.Context, time.Time) ([]*ticket.Ticket, error) {
			return []*ticket.Ticket{tk}, nil
		},
	}
	uc := NewScanOverdueUseCase(repo, overdueObserverFunc(func(n int) { observed = n }), logger.NewNop())

	count, err := uc.Execute(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, observed)
}

type overdueObserverFunc func(int)

func (f overdueObserverFunc) SetOverdueTickets(count int) { f(count) }
