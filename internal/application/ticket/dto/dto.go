package dto

import (
	"time"

	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
)

// UserSummaryDTO is the public face of a customer or staff member.
type UserSummaryDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
}

type TeamSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AgentSummaryDTO struct {
	ID   string          `json:"id"`
	User *UserSummaryDTO `json:"user,omitempty"`
}

type MessageDTO struct {
	ID          string          `json:"id"`
	TicketID    string          `json:"ticket_id"`
	SenderID    string          `json:"sender_id"`
	Content     string          `json:"content"`
	ContentHTML string          `json:"content_html,omitempty"`
	IsInternal  bool            `json:"is_internal"`
	Attachments []string        `json:"attachments"`
	Sender      *UserSummaryDTO `json:"sender,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TicketDTO is the expanded ticket: customer, team and assigned agent are
// resolved, and Messages is filled only when the caller asked for the thread.
type TicketDTO struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Status          string           `json:"status"`
	StatusLabel     string           `json:"status_label"`
	Priority        string           `json:"priority"`
	PriorityLabel   string           `json:"priority_label"`
	Source          string           `json:"source"`
	CustomerID      string           `json:"customer_id"`
	TeamID          *string          `json:"team_id,omitempty"`
	AssignedAgentID *string          `json:"assigned_agent_id,omitempty"`
	Tags            []string         `json:"tags"`
	Metadata        map[string]any   `json:"metadata"`
	SLADeadline     *time.Time       `json:"sla_deadline,omitempty"`
	FirstResponseAt *time.Time       `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	IsOverdue       bool             `json:"is_overdue"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Customer        *UserSummaryDTO  `json:"customer,omitempty"`
	Team            *TeamSummaryDTO  `json:"team,omitempty"`
	AssignedAgent   *AgentSummaryDTO `json:"assigned_agent,omitempty"`
	Messages        []MessageDTO     `json:"messages,omitempty"`
}

func ToUserSummaryDTO(u *user.User) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{
		ID:        u.ID(),
		Name:      u.DisplayName(),
		Email:     u.Email().String(),
		AvatarURL: u.AvatarURL(),
		Role:      u.Role().String(),
	}
}

func ToTeamSummaryDTO(t *user.Team) *TeamSummaryDTO {
	if t == nil {
		return nil
	}
	return &TeamSummaryDTO{ID: t.ID(), Name: t.Name()}
}

// ToTicketDTO maps the ticket's own columns. Relations are attached by the
// expander.
func ToTicketDTO(t *ticket.Ticket, now time.Time) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		Status:          t.Status().String(),
		StatusLabel:     t.Status().Label(),
		Priority:        t.Priority().String(),
		PriorityLabel:   t.Priority().Label(),
		Source:          t.Source().String(),
		CustomerID:      t.CustomerID(),
		TeamID:          t.TeamID(),
		AssignedAgentID: t.AssignedAgentID(),
		Tags:            t.Tags(),
		Metadata:        t.Metadata(),
		SLADeadline:     t.SLADeadline(),
		FirstResponseAt: t.FirstResponseAt(),
		ResolvedAt:      t.ResolvedAt(),
		ClosedAt:        t.ClosedAt(),
		IsOverdue:       t.IsOverdue(now),
		Version:         t.Version(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
}

func ToMessageDTO(m *ticket.Message) MessageDTO {
	return MessageDTO{
		ID:          m.ID(),
		TicketID:    m.TicketID(),
		SenderID:    m.SenderID(),
		Content:     m.Content(),
		IsInternal:  m.IsInternal(),
		Attachments: m.Attachments(),
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}
