package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/goroutine"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// SendMessageCommand posts a reply or internal note. Attachments are the
// storage paths returned by earlier uploads to the same ticket.
type SendMessageCommand struct {
	Actor       Actor
	TicketID    string
	Content     string
	IsInternal  bool
	Attachments []string
}

type SendMessageUseCase struct {
	ticketRepo     ticket.Repository
	messageRepo    ticket.MessageRepository
	attachmentRepo attachment.Repository
	directory      DirectoryReader
	txManager      TransactionRunner
	expander       *TicketExpander
	notifier       ChangeNotifier
	replyNotifier  ReplyNotifier
	logger         logger.Interface
}

func NewSendMessageUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	directory DirectoryReader,
	txManager TransactionRunner,
	expander *TicketExpander,
	notifier ChangeNotifier,
	replyNotifier ReplyNotifier,
	logger logger.Interface,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		directory:      directory,
		txManager:      txManager,
		expander:       expander,
		notifier:       notifier,
		replyNotifier:  replyNotifier,
		logger:         logger,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, cmd SendMessageCommand) (*dto.MessageDTO, error) {
	uc.logger.Infow("executing send message use case",
		"ticket_id", cmd.TicketID,
		"sender_id", cmd.Actor.UserID,
		"is_internal", cmd.IsInternal,
		"attachments", len(cmd.Attachments),
	)

	if cmd.IsInternal && !cmd.Actor.IsStaff() {
		return nil, errors.NewForbiddenError("only staff can add internal notes")
	}

	t, err := loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	m, err := ticket.NewMessage(t.ID(), cmd.Actor.UserID, cmd.Content, cmd.IsInternal, cmd.Attachments)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.checkAttachments(ctx, t.ID(), m.Attachments()); err != nil {
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.messageRepo.Create(ctx, m); err != nil {
			return err
		}
		if paths := m.Attachments(); len(paths) > 0 {
			if err := uc.attachmentRepo.Rebind(ctx, paths, attachment.EntityMessage, m.ID()); err != nil {
				return err
			}
		}
		t.RecordReply(m.SenderID(), m.IsInternal(), m.CreatedAt())
		return uc.ticketRepo.Update(ctx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to save message", "ticket_id", t.ID(), "error", err)
		return nil, asAppError(err, "failed to save message")
	}

	uc.notifier.MessageUpserted(ctx, t, m)
	uc.notifier.TicketUpserted(ctx, t)

	if uc.replyNotifier != nil && !m.IsInternal() && m.SenderID() != t.CustomerID() {
		uc.notifyCustomer(t, m)
	}

	uc.logger.Infow("message sent successfully", "ticket_id", t.ID(), "message_id", m.ID())

	expanded, err := uc.expander.ExpandMessages(ctx, []*ticket.Message{m})
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// checkAttachments requires every referenced path to be a recorded upload
// on this ticket that no other message has claimed.
func (uc *SendMessageUseCase) checkAttachments(ctx context.Context, ticketID string, paths []string) error {
	for _, p := range paths {
		a, err := uc.attachmentRepo.GetByPath(ctx, p)
		if err != nil {
			if errors.IsNotFoundError(err) {
				return errors.NewValidationError("attachment not found", p)
			}
			return asAppError(err, "failed to load attachment")
		}
		if a.TicketID() != ticketID || a.EntityType() != attachment.EntityTicket {
			return errors.NewValidationError("attachment cannot be used on this message", p)
		}
	}
	return nil
}

func (uc *SendMessageUseCase) notifyCustomer(t *ticket.Ticket, m *ticket.Message) {
	goroutine.SafeGo(uc.logger, "reply-notifier", func() {
		ctx := context.Background()
		users, err := uc.directory.GetUsers(ctx, []string{t.CustomerID(), m.SenderID()})
		if err != nil {
			uc.logger.Warnw("failed to load users for reply notification", "ticket_id", t.ID(), "error", err)
			return
		}
		customer, sender := users[t.CustomerID()], users[m.SenderID()]
		if customer == nil {
			return
		}
		if err := uc.replyNotifier.NotifyReply(ctx, t, m, customer, sender); err != nil {
			uc.logger.Warnw("failed to send reply notification", "ticket_id", t.ID(), "error", err)
		}
	})
}
