package ticket

import (
	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/application/ticket/usecases"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

type CreateTicketRequest struct {
	Title       string         `json:"title" binding:"required,max=200"`
	Description string         `json:"description" binding:"max=10000"`
	Priority    string         `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Source      string         `json:"source" binding:"omitempty,oneof=email web chat api phone"`
	CustomerID  string         `json:"customer_id,omitempty"`
	Tags        []string       `json:"tags,omitempty" binding:"max=20,dive,max=50"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Actor) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:       actor,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Source:      r.Source,
		CustomerID:  r.CustomerID,
		Tags:        r.Tags,
		Metadata:    r.Metadata,
	}
}

// UpdateTicketRequest is a partial update: absent fields are left alone.
type UpdateTicketRequest struct {
	Title       *string        `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=10000"`
	Tags        []string       `json:"tags,omitempty" binding:"omitempty,max=20,dive,max=50"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AssignTicketRequest assigns an agent, a team, or both. Unassign clears
// the agent and ignores the other fields.
type AssignTicketRequest struct {
	AgentID  string `json:"agent_id,omitempty"`
	TeamID   string `json:"team_id,omitempty"`
	Unassign bool   `json:"unassign,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new open in_progress resolved closed"`
}

type ChangePriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high urgent"`
}

// SendMessageRequest allows empty content only together with attachments.
type SendMessageRequest struct {
	Content     string   `json:"content" binding:"max=20000"`
	IsInternal  bool     `json:"is_internal"`
	Attachments []string `json:"attachments,omitempty" binding:"max=10,dive,required"`
}

func parseListTicketsQuery(c *gin.Context, actor authorization.Actor) usecases.ListTicketsQuery {
	p := utils.ParsePagination(c)
	return usecases.ListTicketsQuery{
		Actor:           actor,
		Status:          c.Query("status"),
		Priority:        c.Query("priority"),
		AssignedAgentID: c.Query("assigned_agent_id"),
		TeamID:          c.Query("team_id"),
		Tag:             c.Query("tag"),
		Search:          c.Query("q"),
		Page:            p.Page,
		PageSize:        p.PageSize,
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
	}
}
