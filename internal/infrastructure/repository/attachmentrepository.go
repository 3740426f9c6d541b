package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/mappers"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
	db "github.com/customerly-inc/customerly/internal/shared/db"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

var _ attachment.Repository = (*AttachmentRepository)(nil)

func (r *AttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(mappers.AttachmentToModel(a)).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, attachmentID string) (*attachment.Attachment, error) {
	return r.first(ctx, "id = ?", attachmentID)
}

func (r *AttachmentRepository) GetByPath(ctx context.Context, storagePath string) (*attachment.Attachment, error) {
	return r.first(ctx, "storage_path = ?", storagePath)
}

func (r *AttachmentRepository) first(ctx context.Context, cond string, arg any) (*attachment.Attachment, error) {
	var model models.AttachmentModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where(cond, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("attachment not found")
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}
	return mappers.AttachmentToDomain(&model), nil
}

func (r *AttachmentRepository) ListForEntity(ctx context.Context, entityType attachment.EntityType, entityID string) ([]*attachment.Attachment, error) {
	return r.find(db.GetTxFromContext(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Order("created_at ASC, id ASC"))
}

func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]*attachment.Attachment, error) {
	return r.find(db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC"))
}

func (r *AttachmentRepository) Rebind(ctx context.Context, storagePaths []string, entityType attachment.EntityType, entityID string) error {
	if len(storagePaths) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.AttachmentModel{}).
		Where("storage_path IN ? AND entity_type = ?", storagePaths, string(attachment.EntityTicket)).
		Updates(map[string]any{
			"entity_type": string(entityType),
			"entity_id":   entityID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to rebind attachments: %w", result.Error)
	}
	if int(result.RowsAffected) != len(storagePaths) {
		return errors.NewConflictError("one or more attachments are missing or already sent")
	}
	return nil
}

func (r *AttachmentRepository) ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*attachment.Attachment, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("entity_type = ? AND created_at < ?", string(attachment.EntityTicket), cutoff.UnixMilli()).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

func (r *AttachmentRepository) Delete(ctx context.Context, attachmentID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("id = ?", attachmentID).Delete(&models.AttachmentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete attachment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("attachment not found")
	}
	return nil
}

func (r *AttachmentRepository) find(query *gorm.DB) ([]*attachment.Attachment, error) {
	var list []models.AttachmentModel
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	out := make([]*attachment.Attachment, 0, len(list))
	for i := range list {
		out = append(out, mappers.AttachmentToDomain(&list[i]))
	}
	return out, nil
}
