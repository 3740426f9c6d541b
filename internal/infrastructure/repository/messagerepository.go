package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/mappers"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
	db "github.com/customerly-inc/customerly/internal/shared/db"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

type MessageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db, mapper: mappers.NewTicketMapper()}
}

var _ ticket.MessageRepository = (*MessageRepository)(nil)

func (r *MessageRepository) Create(ctx context.Context, m *ticket.Message) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(r.mapper.MessageToModel(m)).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, messageID string) (*ticket.Message, error) {
	var model models.MessageModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id = ?", messageID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("message not found")
		}
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return r.mapper.MessageToDomain(&model)
}

func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*ticket.Message, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Where("ticket_id = ?", ticketID)
	if !includeInternal {
		query = query.Where("is_internal = ?", false)
	}

	var messageModels []models.MessageModel
	if err := query.Order("created_at ASC, id ASC").Find(&messageModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*ticket.Message, 0, len(messageModels))
	for i := range messageModels {
		m, err := r.mapper.MessageToDomain(&messageModels[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, messageID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("id = ?", messageID).Delete(&models.MessageModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("message not found")
	}
	return nil
}

func (r *MessageRepository) DeleteByTicket(ctx context.Context, ticketID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_id = ?", ticketID).Delete(&models.MessageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete ticket messages: %w", err)
	}
	return nil
}
