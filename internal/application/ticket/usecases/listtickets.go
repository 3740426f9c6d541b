package usecases

import (
	"context"
	"strings"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type ListTicketsQuery struct {
	Actor           Actor
	Status          string
	Priority        string
	AssignedAgentID string
	TeamID          string
	Tag             string
	Search          string
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO
	Total    int64
	Page     int
	PageSize int
}

var allowedSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"priority":     true,
	"status":       true,
	"sla_deadline": true,
}

type ListTicketsUseCase struct {
	ticketRepo ticket.Repository
	expander   *TicketExpander
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.Repository, expander *TicketExpander, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		expander:   expander,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	uc.logger.Infow("executing list tickets use case",
		"actor_id", query.Actor.UserID,
		"page", query.Page,
		"page_size", query.PageSize,
	)

	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, asAppError(err, "failed to list tickets")
	}

	items, err := uc.expander.ExpandMany(ctx, tickets)
	if err != nil {
		return nil, err
	}

	return &ListTicketsResult{
		Tickets:  items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListTicketsUseCase) buildFilter(query ListTicketsQuery) (ticket.Filter, error) {
	filter := ticket.Filter{
		Tag:       strings.ToLower(strings.TrimSpace(query.Tag)),
		Search:    strings.TrimSpace(query.Search),
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: strings.ToLower(query.SortOrder),
	}
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize <= 0 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if !allowedSortFields[filter.SortBy] {
		return filter, errors.NewValidationError("invalid sort field: " + filter.SortBy)
	}
	if filter.SortOrder != "asc" {
		filter.SortOrder = "desc"
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Priority = &priority
	}
	if query.AssignedAgentID != "" {
		filter.AssignedAgentID = &query.AssignedAgentID
	}
	if query.TeamID != "" {
		filter.TeamID = &query.TeamID
	}

	// Customers only ever see their own tickets.
	if !query.Actor.IsStaff() {
		customerID := query.Actor.UserID
		filter.CustomerID = &customerID
	}
	return filter, nil
}
