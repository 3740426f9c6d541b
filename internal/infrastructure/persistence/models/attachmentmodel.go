package models

import "github.com/customerly-inc/customerly/internal/shared/constants"

type AttachmentModel struct {
	ID           string `gorm:"primaryKey;size:32"`
	StoragePath  string `gorm:"uniqueIndex;not null;size:500"`
	FileName     string `gorm:"not null;size:255"`
	OriginalName string `gorm:"not null;size:255"`
	ContentType  string `gorm:"not null;size:100"`
	Size         int64  `gorm:"not null"`
	EntityType   string `gorm:"not null;size:20;index:idx_attachments_entity,priority:1"`
	EntityID     string `gorm:"not null;size:32;index:idx_attachments_entity,priority:2"`
	TicketID     string `gorm:"not null;size:32;index"`
	UploaderID   string `gorm:"not null;size:32"`
	CreatedAt    int64  `gorm:"autoCreateTime:false;not null;index"`
}

func (AttachmentModel) TableName() string {
	return constants.TableAttachments
}
