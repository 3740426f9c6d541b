package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/services/markdown"
)

const expandConcurrency = 8

// TicketExpander turns tickets into the expanded shape clients render:
// customer, team, assigned agent with its user, and optionally the thread
// with each sender.
type TicketExpander struct {
	directory   DirectoryReader
	messageRepo ticket.MessageRepository
	renderer    markdown.Renderer
	logger      logger.Interface
}

func NewTicketExpander(
	directory DirectoryReader,
	messageRepo ticket.MessageRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *TicketExpander {
	return &TicketExpander{
		directory:   directory,
		messageRepo: messageRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

// Expand resolves one ticket. Internal notes are included only for staff.
func (e *TicketExpander) Expand(ctx context.Context, t *ticket.Ticket, viewer Actor, withMessages bool) (*dto.TicketDTO, error) {
	var (
		team     *user.Team
		agent    *user.Agent
		messages []*ticket.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	if teamID := t.TeamID(); teamID != nil {
		g.Go(func() error {
			var err error
			team, err = optional(e.directory.GetTeam(gctx, *teamID))
			return err
		})
	}
	if agentID := t.AssignedAgentID(); agentID != nil {
		g.Go(func() error {
			var err error
			agent, err = optional(e.directory.GetAgent(gctx, *agentID))
			return err
		})
	}
	if withMessages {
		g.Go(func() error {
			var err error
			messages, err = e.messageRepo.ListByTicket(gctx, t.ID(), viewer.IsStaff())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, asAppError(err, "failed to expand ticket")
	}

	userIDs := []string{t.CustomerID()}
	if agent != nil {
		userIDs = append(userIDs, agent.UserID())
	}
	for _, m := range messages {
		userIDs = append(userIDs, m.SenderID())
	}
	users, err := e.directory.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, asAppError(err, "failed to load users")
	}

	result := dto.ToTicketDTO(t, biztime.NowUTC())
	result.Customer = dto.ToUserSummaryDTO(users[t.CustomerID()])
	result.Team = dto.ToTeamSummaryDTO(team)
	if agent != nil {
		result.AssignedAgent = &dto.AgentSummaryDTO{
			ID:   agent.ID(),
			User: dto.ToUserSummaryDTO(users[agent.UserID()]),
		}
	}
	if withMessages {
		result.Messages = make([]dto.MessageDTO, 0, len(messages))
		for _, m := range messages {
			result.Messages = append(result.Messages, e.messageDTO(m, users))
		}
	}
	return result, nil
}

// ExpandMany resolves a page of tickets without their threads, batching
// user lookups across the page.
func (e *TicketExpander) ExpandMany(ctx context.Context, tickets []*ticket.Ticket) ([]*dto.TicketDTO, error) {
	teamIDs := make(map[string]*user.Team)
	agentIDs := make(map[string]*user.Agent)
	for _, t := range tickets {
		if id := t.TeamID(); id != nil {
			teamIDs[*id] = nil
		}
		if id := t.AssignedAgentID(); id != nil {
			agentIDs[*id] = nil
		}
	}

	teams := make(map[string]*user.Team, len(teamIDs))
	agents := make(map[string]*user.Agent, len(agentIDs))
	results := make(chan func(), len(teamIDs)+len(agentIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expandConcurrency)
	for id := range teamIDs {
		g.Go(func() error {
			team, err := optional(e.directory.GetTeam(gctx, id))
			if err == nil {
				results <- func() { teams[id] = team }
			}
			return err
		})
	}
	for id := range agentIDs {
		g.Go(func() error {
			agent, err := optional(e.directory.GetAgent(gctx, id))
			if err == nil {
				results <- func() { agents[id] = agent }
			}
			return err
		})
	}
	err := g.Wait()
	close(results)
	if err != nil {
		return nil, asAppError(err, "failed to expand tickets")
	}
	for apply := range results {
		apply()
	}

	userIDs := make([]string, 0, len(tickets)+len(agents))
	for _, t := range tickets {
		userIDs = append(userIDs, t.CustomerID())
	}
	for _, a := range agents {
		if a != nil {
			userIDs = append(userIDs, a.UserID())
		}
	}
	users, err := e.directory.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, asAppError(err, "failed to load users")
	}

	now := biztime.NowUTC()
	out := make([]*dto.TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		item := dto.ToTicketDTO(t, now)
		item.Customer = dto.ToUserSummaryDTO(users[t.CustomerID()])
		if id := t.TeamID(); id != nil {
			item.Team = dto.ToTeamSummaryDTO(teams[*id])
		}
		if id := t.AssignedAgentID(); id != nil {
			if a := agents[*id]; a != nil {
				item.AssignedAgent = &dto.AgentSummaryDTO{
					ID:   a.ID(),
					User: dto.ToUserSummaryDTO(users[a.UserID()]),
				}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ExpandMessages attaches senders and rendered HTML to a thread.
func (e *TicketExpander) ExpandMessages(ctx context.Context, messages []*ticket.Message) ([]dto.MessageDTO, error) {
	userIDs := make([]string, 0, len(messages))
	for _, m := range messages {
		userIDs = append(userIDs, m.SenderID())
	}
	users, err := e.directory.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, asAppError(err, "failed to load users")
	}
	out := make([]dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, e.messageDTO(m, users))
	}
	return out, nil
}

func (e *TicketExpander) messageDTO(m *ticket.Message, users map[string]*user.User) dto.MessageDTO {
	item := dto.ToMessageDTO(m)
	item.Sender = dto.ToUserSummaryDTO(users[m.SenderID()])
	if e.renderer != nil && m.Content() != "" {
		html, err := e.renderer.ToHTMLSanitized(m.Content())
		if err != nil {
			e.logger.Warnw("failed to render message content", "message_id", m.ID(), "error", err)
		} else {
			item.ContentHTML = html
		}
	}
	return item
}

// optional turns a not-found lookup into a nil relation. A ticket may point
// at a team or agent that has since been removed.
func optional[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
