package models

import (
	"gorm.io/datatypes"

	"github.com/customerly-inc/customerly/internal/shared/constants"
)

// UserModel represents the database persistence model for users
type UserModel struct {
	ID          string         `gorm:"primaryKey;size:32"`
	Email       string         `gorm:"uniqueIndex;not null;size:255"`
	Name        string         `gorm:"not null;size:100"`
	AvatarURL   string         `gorm:"size:500"`
	Role        string         `gorm:"not null;size:20;index"`
	Preferences datatypes.JSON `gorm:"type:json"`
	CreatedAt   int64          `gorm:"autoCreateTime:false;not null"`
	UpdatedAt   int64          `gorm:"autoUpdateTime:false;not null"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

type TeamModel struct {
	ID        string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"uniqueIndex;not null;size:100"`
	CreatedAt int64  `gorm:"autoCreateTime:false;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:false;not null"`
}

func (TeamModel) TableName() string {
	return constants.TableTeams
}

// AgentModel ties a staff user to a team. CurrentTickets only moves through
// conditional increments bounded by MaxTickets.
type AgentModel struct {
	ID             string `gorm:"primaryKey;size:32"`
	UserID         string `gorm:"uniqueIndex;not null;size:32"`
	TeamID         string `gorm:"not null;size:32;index"`
	MaxTickets     int    `gorm:"not null;default:20"`
	CurrentTickets int    `gorm:"not null;default:0"`
	CreatedAt      int64  `gorm:"autoCreateTime:false;not null"`
	UpdatedAt      int64  `gorm:"autoUpdateTime:false;not null"`
}

func (AgentModel) TableName() string {
	return constants.TableAgents
}
