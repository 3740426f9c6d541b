package migration

import (
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.TeamModel{},
		&models.AgentModel{},
		&models.TicketModel{},
		&models.MessageModel{},
		&models.AttachmentModel{},
	}
}
