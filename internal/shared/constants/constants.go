package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware.
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Table names.
	TableUsers       = "users"
	TableTeams       = "teams"
	TableAgents      = "agents"
	TableTickets     = "tickets"
	TableMessages    = "ticket_messages"
	TableAttachments = "attachments"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"

	// Generic strings shown by clients. Failures are never classified
	// further than this on the client side.
	ErrMsgLoadTickets  = "Failed to load tickets"
	ErrMsgSendMessage  = "Failed to send message"
	ErrMsgLoadPreview  = "Failed to load preview"
	ErrMsgDownloadFile = "Failed to download file"
)
