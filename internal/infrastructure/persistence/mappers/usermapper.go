package mappers

import (
	"fmt"

	"github.com/customerly-inc/customerly/internal/domain/user"
	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
)

// UserMapper converts the directory entities: users, teams and agents.
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
	TeamToEntity(model *models.TeamModel) *user.Team
	TeamToModel(entity *user.Team) *models.TeamModel
	AgentToEntity(model *models.AgentModel) (*user.Agent, error)
	AgentToModel(entity *user.Agent) *models.AgentModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}
	role, err := vo.NewRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create role value object: %w", err)
	}
	var prefs map[string]any
	if err := fromJSON(model.Preferences, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences (id=%s): %w", model.ID, err)
	}
	return user.ReconstructUser(
		model.ID,
		email,
		model.Name,
		model.AvatarURL,
		role,
		prefs,
		fromMillis(model.CreatedAt),
		fromMillis(model.UpdatedAt),
	), nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:          entity.ID(),
		Email:       entity.Email().String(),
		Name:        entity.Name(),
		AvatarURL:   entity.AvatarURL(),
		Role:        entity.Role().String(),
		Preferences: toJSON(entity.Preferences()),
		CreatedAt:   toMillis(entity.CreatedAt()),
		UpdatedAt:   toMillis(entity.UpdatedAt()),
	}
}

func (m *UserMapperImpl) ToEntities(list []*models.UserModel) ([]*user.User, error) {
	out := make([]*user.User, 0, len(list))
	for _, model := range list {
		u, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *UserMapperImpl) TeamToEntity(model *models.TeamModel) *user.Team {
	return user.ReconstructTeam(model.ID, model.Name, fromMillis(model.CreatedAt), fromMillis(model.UpdatedAt))
}

func (m *UserMapperImpl) TeamToModel(entity *user.Team) *models.TeamModel {
	return &models.TeamModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		CreatedAt: toMillis(entity.CreatedAt()),
		UpdatedAt: toMillis(entity.UpdatedAt()),
	}
}

func (m *UserMapperImpl) AgentToEntity(model *models.AgentModel) (*user.Agent, error) {
	return user.ReconstructAgent(
		model.ID,
		model.UserID,
		model.TeamID,
		model.MaxTickets,
		model.CurrentTickets,
		fromMillis(model.CreatedAt),
		fromMillis(model.UpdatedAt),
	)
}

func (m *UserMapperImpl) AgentToModel(entity *user.Agent) *models.AgentModel {
	return &models.AgentModel{
		ID:             entity.ID(),
		UserID:         entity.UserID(),
		TeamID:         entity.TeamID(),
		MaxTickets:     entity.MaxTickets(),
		CurrentTickets: entity.CurrentTickets(),
		CreatedAt:      toMillis(entity.CreatedAt()),
		UpdatedAt:      toMillis(entity.UpdatedAt()),
	}
}
