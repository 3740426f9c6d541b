package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketDTO, error)
}

type ChangePriorityExecutor interface {
	Execute(ctx context.Context, cmd ChangePriorityCommand) (*dto.TicketDTO, error)
}

type SendMessageExecutor interface {
	Execute(ctx context.Context, cmd SendMessageCommand) (*dto.MessageDTO, error)
}

type ListMessagesExecutor interface {
	Execute(ctx context.Context, query ListMessagesQuery) ([]dto.MessageDTO, error)
}

type DeleteMessageExecutor interface {
	Execute(ctx context.Context, cmd DeleteMessageCommand) error
}

var (
	_ CreateTicketExecutor   = (*CreateTicketUseCase)(nil)
	_ UpdateTicketExecutor   = (*UpdateTicketUseCase)(nil)
	_ GetTicketExecutor      = (*GetTicketUseCase)(nil)
	_ ListTicketsExecutor    = (*ListTicketsUseCase)(nil)
	_ DeleteTicketExecutor   = (*DeleteTicketUseCase)(nil)
	_ AssignTicketExecutor   = (*AssignTicketUseCase)(nil)
	_ ChangeStatusExecutor   = (*ChangeStatusUseCase)(nil)
	_ ChangePriorityExecutor = (*ChangePriorityUseCase)(nil)
	_ SendMessageExecutor    = (*SendMessageUseCase)(nil)
	_ ListMessagesExecutor   = (*ListMessagesUseCase)(nil)
	_ DeleteMessageExecutor  = (*DeleteMessageUseCase)(nil)
)
