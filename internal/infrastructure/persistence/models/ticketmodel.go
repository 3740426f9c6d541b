package models

import (
	"gorm.io/datatypes"

	"github.com/customerly-inc/customerly/internal/shared/constants"
)

type TicketModel struct {
	ID              string         `gorm:"primaryKey;size:32"`
	Title           string         `gorm:"size:200;not null"`
	Description     string         `gorm:"type:text;not null"`
	Status          string         `gorm:"size:20;not null;index"`
	Priority        string         `gorm:"size:20;not null;index"`
	Source          string         `gorm:"size:20;not null"`
	CustomerID      string         `gorm:"size:32;not null;index"`
	TeamID          *string        `gorm:"size:32;index"`
	AssignedAgentID *string        `gorm:"size:32;index"`
	Tags            datatypes.JSON `gorm:"type:json"`
	Metadata        datatypes.JSON `gorm:"type:json"`
	SLADeadline     *int64         `gorm:"index"`
	FirstResponseAt *int64
	ResolvedAt      *int64
	ClosedAt        *int64
	Version         int   `gorm:"not null;default:1"`
	CreatedAt       int64 `gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt       int64 `gorm:"autoUpdateTime:false;not null"`

	// No foreign keys; relations are resolved by the application.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type MessageModel struct {
	ID          string         `gorm:"primaryKey;size:32"`
	TicketID    string         `gorm:"size:32;not null;index:idx_ticket_messages_ticket_created,priority:1"`
	SenderID    string         `gorm:"size:32;not null;index"`
	Content     string         `gorm:"type:text;not null"`
	IsInternal  bool           `gorm:"not null;default:false"`
	Attachments datatypes.JSON `gorm:"type:json"`
	CreatedAt   int64          `gorm:"autoCreateTime:false;not null;index:idx_ticket_messages_ticket_created,priority:2"`
	UpdatedAt   int64          `gorm:"autoUpdateTime:false;not null"`
}

func (MessageModel) TableName() string {
	return constants.TableMessages
}
