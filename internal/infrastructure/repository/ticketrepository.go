package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/mappers"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
	"github.com/customerly-inc/customerly/internal/shared/constants"
	db "github.com/customerly-inc/customerly/internal/shared/db"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// allowedTicketOrderByFields is the ORDER BY whitelist.
var allowedTicketOrderByFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"priority":     true,
	"status":       true,
	"sla_deadline": true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

var _ ticket.Repository = (*TicketRepository)(nil)

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// Update writes the aggregate if nobody else has written it since it was
// loaded. The aggregate bumps its own version on every change, so a stored
// version at or above ours means a concurrent writer won.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Updates(map[string]any{
			"title":             model.Title,
			"description":       model.Description,
			"status":            model.Status,
			"priority":          model.Priority,
			"team_id":           model.TeamID,
			"assigned_agent_id": model.AssignedAgentID,
			"tags":              model.Tags,
			"metadata":          model.Metadata,
			"sla_deadline":      model.SLADeadline,
			"first_response_at": model.FirstResponseAt,
			"resolved_at":       model.ResolvedAt,
			"closed_at":         model.ClosedAt,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update ticket", "ticket_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check ticket: %w", err)
		}
		if count == 0 {
			return errors.NewNotFoundError("ticket not found")
		}
		return errors.NewConflictError("ticket was modified by someone else, reload and retry")
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, ticketID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("id = ?", ticketID).Delete(&models.TicketModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("ticket not found")
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("id = ?", ticketID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// List pages through tickets. Free-text search also looks at the
// customer's name and email through a join on users.
func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{}).Table(constants.TableTickets + " AS t")

	if filter.Status != nil {
		query = query.Where("t.status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("t.priority = ?", filter.Priority.String())
	}
	if filter.CustomerID != nil {
		query = query.Where("t.customer_id = ?", *filter.CustomerID)
	}
	if filter.AssignedAgentID != nil {
		query = query.Where("t.assigned_agent_id = ?", *filter.AssignedAgentID)
	}
	if filter.TeamID != nil {
		query = query.Where("t.team_id = ?", *filter.TeamID)
	}
	if filter.Tag != "" {
		// tags are stored as a JSON array of lowercase strings
		query = query.Where(r.jsonText("t.tags")+" LIKE ?", `%"`+strings.ToLower(filter.Tag)+`"%`)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := db.LikePattern(search)
		query = query.
			Joins("LEFT JOIN " + constants.TableUsers + " AS u ON u.id = t.customer_id").
			Where("LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ? OR LOWER(u.name) LIKE ? OR LOWER(u.email) LIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	sortBy := strings.ToLower(filter.SortBy)
	if sortBy != "" && allowedTicketOrderByFields[sortBy] {
		order := strings.ToUpper(filter.SortOrder)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		query = query.Order("t." + sortBy + " " + order)
	} else {
		query = query.Order("t.created_at DESC")
	}
	query = query.Order("t.id DESC").Scopes(db.Paginate(filter.Page, filter.PageSize))

	var ticketModels []models.TicketModel
	if err := query.Select("t.*").Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(ticketModels))
	for i := range ticketModels {
		t, err := r.mapper.ToDomain(&ticketModels[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, nil
}

func (r *TicketRepository) ListOverdue(ctx context.Context, now time.Time) ([]*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var ticketModels []models.TicketModel
	err := tx.
		Where("sla_deadline IS NOT NULL AND sla_deadline < ?", now.UnixMilli()).
		Where("first_response_at IS NULL").
		Where("status NOT IN ?", []string{vo.StatusResolved.String(), vo.StatusClosed.String()}).
		Order("sla_deadline ASC").
		Find(&ticketModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(ticketModels))
	for i := range ticketModels {
		t, err := r.mapper.ToDomain(&ticketModels[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// jsonText casts a JSON column so LIKE works on every supported driver.
func (r *TicketRepository) jsonText(column string) string {
	switch r.db.Dialector.Name() {
	case "mysql":
		return "CAST(" + column + " AS CHAR)"
	case "postgres":
		return "CAST(" + column + " AS TEXT)"
	}
	return column
}
