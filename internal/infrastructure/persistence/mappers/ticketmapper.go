package mappers

import (
	"fmt"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket aggregates and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	MessageToModel(m *ticket.Message) *models.MessageModel
	MessageToDomain(model *models.MessageModel) (*ticket.Message, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		Status:          t.Status().String(),
		Priority:        t.Priority().String(),
		Source:          t.Source().String(),
		CustomerID:      t.CustomerID(),
		TeamID:          t.TeamID(),
		AssignedAgentID: t.AssignedAgentID(),
		Tags:            toJSON(t.Tags()),
		Metadata:        toJSON(t.Metadata()),
		SLADeadline:     toMillisPtr(t.SLADeadline()),
		FirstResponseAt: toMillisPtr(t.FirstResponseAt()),
		ResolvedAt:      toMillisPtr(t.ResolvedAt()),
		ClosedAt:        toMillisPtr(t.ClosedAt()),
		Version:         t.Version(),
		CreatedAt:       toMillis(t.CreatedAt()),
		UpdatedAt:       toMillis(t.UpdatedAt()),
	}
}

// ToDomain rebuilds a ticket. Messages are loaded separately.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	var tags []string
	if err := fromJSON(model.Tags, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket tags (id=%s): %w", model.ID, err)
	}
	var metadata map[string]any
	if err := fromJSON(model.Metadata, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket metadata (id=%s): %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Title,
		model.Description,
		vo.TicketStatus(model.Status),
		vo.Priority(model.Priority),
		vo.Source(model.Source),
		model.CustomerID,
		model.TeamID,
		model.AssignedAgentID,
		tags,
		metadata,
		fromMillisPtr(model.SLADeadline),
		fromMillisPtr(model.FirstResponseAt),
		fromMillisPtr(model.ResolvedAt),
		fromMillisPtr(model.ClosedAt),
		model.Version,
		fromMillis(model.CreatedAt),
		fromMillis(model.UpdatedAt),
	)
}

func (m *TicketMapperImpl) MessageToModel(msg *ticket.Message) *models.MessageModel {
	return &models.MessageModel{
		ID:          msg.ID(),
		TicketID:    msg.TicketID(),
		SenderID:    msg.SenderID(),
		Content:     msg.Content(),
		IsInternal:  msg.IsInternal(),
		Attachments: toJSON(msg.Attachments()),
		CreatedAt:   toMillis(msg.CreatedAt()),
		UpdatedAt:   toMillis(msg.UpdatedAt()),
	}
}

func (m *TicketMapperImpl) MessageToDomain(model *models.MessageModel) (*ticket.Message, error) {
	var paths []string
	if err := fromJSON(model.Attachments, &paths); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message attachments (id=%s): %w", model.ID, err)
	}
	return ticket.ReconstructMessage(
		model.ID,
		model.TicketID,
		model.SenderID,
		model.Content,
		model.IsInternal,
		paths,
		fromMillis(model.CreatedAt),
		fromMillis(model.UpdatedAt),
	)
}
