package http

import (
	attachmentHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/attachment"
	commonHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/common"
	directoryHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/directory"
	realtimeHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/realtime"
	ticketHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *commonHandlers.HealthHandler

	// Ticket
	ticketHandler  *ticketHandlers.TicketHandler
	messageHandler *ticketHandlers.MessageHandler

	// Attachment
	attachmentHandler *attachmentHandlers.AttachmentHandler
	fileHandler       *attachmentHandlers.FileHandler

	// Directory
	directoryHandler *directoryHandlers.DirectoryHandler

	// Realtime
	feedHandler *realtimeHandlers.FeedHandler
}
