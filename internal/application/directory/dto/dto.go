package dto

import (
	"time"

	"github.com/customerly-inc/customerly/internal/domain/user"
)

type UserDTO struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	Role        string         `json:"role"`
	Preferences map[string]any `json:"preferences,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type TeamDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type AgentDTO struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	TeamID         string   `json:"team_id"`
	MaxTickets     int      `json:"max_tickets"`
	CurrentTickets int      `json:"current_tickets"`
	HasCapacity    bool     `json:"has_capacity"`
	User           *UserDTO `json:"user,omitempty"`
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID(),
		Email:       u.Email().String(),
		Name:        u.Name(),
		DisplayName: u.DisplayName(),
		AvatarURL:   u.AvatarURL(),
		Role:        u.Role().String(),
		Preferences: u.Preferences(),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}

func ToTeamDTO(t *user.Team) *TeamDTO {
	return &TeamDTO{ID: t.ID(), Name: t.Name(), CreatedAt: t.CreatedAt()}
}

func ToAgentDTO(a *user.Agent, u *user.User) *AgentDTO {
	return &AgentDTO{
		ID:             a.ID(),
		UserID:         a.UserID(),
		TeamID:         a.TeamID(),
		MaxTickets:     a.MaxTickets(),
		CurrentTickets: a.CurrentTickets(),
		HasCapacity:    a.HasCapacity(),
		User:           ToUserDTO(u),
	}
}
