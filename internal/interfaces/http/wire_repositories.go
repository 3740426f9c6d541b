package http

import (
	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/infrastructure/repository"
	shareddb "github.com/customerly-inc/customerly/internal/shared/db"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo       user.Repository
	teamRepo       user.TeamRepository
	agentRepo      user.AgentRepository
	ticketRepo     ticket.Repository
	messageRepo    ticket.MessageRepository
	attachmentRepo *repository.AttachmentRepository
	txManager      *shareddb.TransactionManager
}

var _ attachment.Repository = (*repository.AttachmentRepository)(nil)

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:       repository.NewUserRepository(db, log),
		teamRepo:       repository.NewTeamRepository(db),
		agentRepo:      repository.NewAgentRepository(db),
		ticketRepo:     repository.NewTicketRepository(db, log),
		messageRepo:    repository.NewMessageRepository(db),
		attachmentRepo: repository.NewAttachmentRepository(db),
		txManager:      shareddb.NewTransactionManager(db),
	}
}
