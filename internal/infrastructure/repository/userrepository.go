package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/mappers"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	db "github.com/customerly-inc/customerly/internal/shared/db"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// UserRepository stores users, teams and agents.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.logger.Infow("user created successfully", "id", model.ID, "email", model.Email)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"avatar_url":  model.AvatarURL,
			"role":        model.Role,
			"preferences": model.Preferences,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) first(ctx context.Context, cond string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByIDs returns the users that exist, in no particular order.
func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []string) ([]*user.User, error) {
	if len(userIDs) == 0 {
		return []*user.User{}, nil
	}
	var list []*models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", userIDs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return r.mapper.ToEntities(list)
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := db.LikePattern(search)
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var list []*models.UserModel
	if err := query.Order("created_at DESC, id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type TeamRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db, mapper: mappers.NewUserMapper()}
}

var _ user.TeamRepository = (*TeamRepository)(nil)

func (r *TeamRepository) Create(ctx context.Context, t *user.Team) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.TeamToModel(t)).Error; err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*user.Team, error) {
	var model models.TeamModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", teamID).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("team not found")
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return r.mapper.TeamToEntity(&model), nil
}

func (r *TeamRepository) List(ctx context.Context) ([]*user.Team, error) {
	var list []models.TeamModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	out := make([]*user.Team, 0, len(list))
	for i := range list {
		out = append(out, r.mapper.TeamToEntity(&list[i]))
	}
	return out, nil
}

type AgentRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db, mapper: mappers.NewUserMapper()}
}

var _ user.AgentRepository = (*AgentRepository)(nil)

func (r *AgentRepository) Create(ctx context.Context, a *user.Agent) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.AgentToModel(a)).Error; err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// Update persists the agent's team. current_tickets is only moved by
// TakeTicket and ReleaseTicket.
func (r *AgentRepository) Update(ctx context.Context, a *user.Agent) error {
	model := r.mapper.AgentToModel(a)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AgentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"team_id":    model.TeamID,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update agent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("agent not found")
	}
	return nil
}

func (r *AgentRepository) TakeTicket(ctx context.Context, agentID string) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AgentModel{}).
		Where("id = ? AND current_tickets < max_tickets", agentID).
		Updates(map[string]any{
			"current_tickets": gorm.Expr("current_tickets + 1"),
			"updated_at":      biztime.NowUTC().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to book agent ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, agentID); err != nil {
			return err
		}
		return errors.NewConflictError(fmt.Sprintf("agent %s is at capacity", agentID))
	}
	return nil
}

func (r *AgentRepository) ReleaseTicket(ctx context.Context, agentID string) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AgentModel{}).
		Where("id = ? AND current_tickets > 0", agentID).
		Updates(map[string]any{
			"current_tickets": gorm.Expr("current_tickets - 1"),
			"updated_at":      biztime.NowUTC().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release agent ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// already at zero is fine; a missing agent is not
		if _, err := r.GetByID(ctx, agentID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AgentRepository) GetByID(ctx context.Context, agentID string) (*user.Agent, error) {
	return r.first(ctx, "id = ?", agentID)
}

func (r *AgentRepository) GetByUserID(ctx context.Context, userID string) (*user.Agent, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *AgentRepository) first(ctx context.Context, cond string, arg any) (*user.Agent, error) {
	var model models.AgentModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("agent not found")
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return r.mapper.AgentToEntity(&model)
}

func (r *AgentRepository) List(ctx context.Context, teamID string) ([]*user.Agent, error) {
	query := db.GetTxFromContext(ctx, r.db).Order("created_at ASC")
	if teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}
	var list []models.AgentModel
	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	out := make([]*user.Agent, 0, len(list))
	for i := range list {
		a, err := r.mapper.AgentToEntity(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
