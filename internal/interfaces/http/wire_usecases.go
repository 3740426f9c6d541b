package http

import (
	attachmentUsecases "github.com/customerly-inc/customerly/internal/application/attachment/usecases"
	directoryApp "github.com/customerly-inc/customerly/internal/application/directory"
	ticketUsecases "github.com/customerly-inc/customerly/internal/application/ticket/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Ticket
	expander       *ticketUsecases.TicketExpander
	feedNotifier   *ticketUsecases.FeedNotifier
	ticketAccess   *ticketUsecases.TicketAccess
	createTicket   *ticketUsecases.CreateTicketUseCase
	updateTicket   *ticketUsecases.UpdateTicketUseCase
	getTicket      *ticketUsecases.GetTicketUseCase
	listTickets    *ticketUsecases.ListTicketsUseCase
	deleteTicket   *ticketUsecases.DeleteTicketUseCase
	assignTicket   *ticketUsecases.AssignTicketUseCase
	changeStatus   *ticketUsecases.ChangeStatusUseCase
	changePriority *ticketUsecases.ChangePriorityUseCase
	scanOverdue    *ticketUsecases.ScanOverdueUseCase

	// Message
	sendMessage   *ticketUsecases.SendMessageUseCase
	listMessages  *ticketUsecases.ListMessagesUseCase
	deleteMessage *ticketUsecases.DeleteMessageUseCase

	// Attachment
	uploadAttachment *attachmentUsecases.UploadAttachmentUseCase
	attachmentURL    *attachmentUsecases.GetAttachmentURLUseCase
	deleteAttachment *attachmentUsecases.DeleteAttachmentUseCase
	listAttachments  *attachmentUsecases.ListAttachmentsUseCase
	sweepOrphans     *attachmentUsecases.SweepOrphansUseCase

	// Directory
	directory *directoryApp.Service
}
