package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxTags              = 20
	maxTagLength         = 50
)

// Ticket is a customer support case.
type Ticket struct {
	id              string
	title           string
	description     string
	status          vo.TicketStatus
	priority        vo.Priority
	source          vo.Source
	customerID      string
	teamID          *string
	assignedAgentID *string
	tags            []string
	metadata        map[string]any
	slaDeadline     *time.Time
	firstResponseAt *time.Time
	resolvedAt      *time.Time
	closedAt        *time.Time
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

func NewTicket(
	title string,
	description string,
	priority vo.Priority,
	source vo.Source,
	customerID string,
	tags []string,
	metadata map[string]any,
) (*Ticket, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if len(description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("invalid source")
	}
	if customerID == "" {
		return nil, fmt.Errorf("customer ID is required")
	}
	normalized, err := normalizeTags(tags)
	if err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	now := biztime.NowUTC()
	deadline := now.Add(priority.SLA())

	return &Ticket{
		id:          id.NewTicketID(),
		title:       title,
		description: description,
		status:      vo.StatusNew,
		priority:    priority,
		source:      source,
		customerID:  customerID,
		tags:        normalized,
		metadata:    metadata,
		slaDeadline: &deadline,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructTicket rebuilds a ticket from storage without re-running
// creation rules.
func ReconstructTicket(
	ticketID string,
	title string,
	description string,
	status vo.TicketStatus,
	priority vo.Priority,
	source vo.Source,
	customerID string,
	teamID *string,
	assignedAgentID *string,
	tags []string,
	metadata map[string]any,
	slaDeadline *time.Time,
	firstResponseAt *time.Time,
	resolvedAt *time.Time,
	closedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if tags == nil {
		tags = []string{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Ticket{
		id:              ticketID,
		title:           title,
		description:     description,
		status:          status,
		priority:        priority,
		source:          source,
		customerID:      customerID,
		teamID:          teamID,
		assignedAgentID: assignedAgentID,
		tags:            tags,
		metadata:        metadata,
		slaDeadline:     slaDeadline,
		firstResponseAt: firstResponseAt,
		resolvedAt:      resolvedAt,
		closedAt:        closedAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (t *Ticket) ID() string                  { return t.id }
func (t *Ticket) Title() string               { return t.title }
func (t *Ticket) Description() string         { return t.description }
func (t *Ticket) Status() vo.TicketStatus     { return t.status }
func (t *Ticket) Priority() vo.Priority       { return t.priority }
func (t *Ticket) Source() vo.Source           { return t.source }
func (t *Ticket) CustomerID() string          { return t.customerID }
func (t *Ticket) TeamID() *string             { return t.teamID }
func (t *Ticket) AssignedAgentID() *string    { return t.assignedAgentID }
func (t *Ticket) SLADeadline() *time.Time     { return t.slaDeadline }
func (t *Ticket) FirstResponseAt() *time.Time { return t.firstResponseAt }
func (t *Ticket) ResolvedAt() *time.Time      { return t.resolvedAt }
func (t *Ticket) ClosedAt() *time.Time        { return t.closedAt }
func (t *Ticket) Version() int                { return t.version }
func (t *Ticket) CreatedAt() time.Time        { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time        { return t.updatedAt }

func (t *Ticket) Tags() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

func (t *Ticket) Metadata() map[string]any {
	out := make(map[string]any, len(t.metadata))
	for k, v := range t.metadata {
		out[k] = v
	}
	return out
}

// UpdateDetails changes the free-form fields. Nil arguments are left as is.
func (t *Ticket) UpdateDetails(title, description *string, tags []string, metadata map[string]any) error {
	changed := false
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if err := validateTitle(trimmed); err != nil {
			return err
		}
		if trimmed != t.title {
			t.title = trimmed
			changed = true
		}
	}
	if description != nil {
		if len(*description) > maxDescriptionLength {
			return fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
		}
		if *description != t.description {
			t.description = *description
			changed = true
		}
	}
	if tags != nil {
		normalized, err := normalizeTags(tags)
		if err != nil {
			return err
		}
		t.tags = normalized
		changed = true
	}
	if metadata != nil {
		t.metadata = metadata
		changed = true
	}
	if changed {
		t.touch()
	}
	return nil
}

// AssignTo routes the ticket to an agent and optionally a team. A new
// ticket becomes open once someone owns it.
func (t *Ticket) AssignTo(agentID string, teamID *string) error {
	if agentID == "" {
		return fmt.Errorf("agent ID is required")
	}
	t.assignedAgentID = &agentID
	if teamID != nil {
		t.teamID = teamID
	}
	if t.status == vo.StatusNew {
		t.status = vo.StatusOpen
	}
	t.touch()
	return nil
}

// AssignTeam routes the ticket to a team queue without picking an agent.
func (t *Ticket) AssignTeam(teamID string) error {
	if teamID == "" {
		return fmt.Errorf("team ID is required")
	}
	t.teamID = &teamID
	t.touch()
	return nil
}

func (t *Ticket) Unassign() {
	if t.assignedAgentID == nil {
		return
	}
	t.assignedAgentID = nil
	t.touch()
}

func (t *Ticket) ChangeStatus(next vo.TicketStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("invalid status: %s", next)
	}
	if t.status == next {
		return nil
	}
	if !t.status.CanTransitionTo(next) {
		return fmt.Errorf("cannot transition from %s to %s", t.status, next)
	}

	now := biztime.NowUTC()
	switch next {
	case vo.StatusResolved:
		if t.resolvedAt == nil {
			t.resolvedAt = &now
		}
	case vo.StatusClosed:
		if t.closedAt == nil {
			t.closedAt = &now
		}
	case vo.StatusOpen:
		if t.status.IsTerminal() {
			t.resolvedAt = nil
			t.closedAt = nil
		}
	}
	t.status = next
	t.touch()
	return nil
}

// ChangePriority recomputes the SLA deadline from the creation time.
func (t *Ticket) ChangePriority(next vo.Priority) error {
	if !next.IsValid() {
		return fmt.Errorf("invalid priority: %s", next)
	}
	if t.priority == next {
		return nil
	}
	t.priority = next
	deadline := t.createdAt.Add(next.SLA())
	t.slaDeadline = &deadline
	t.touch()
	return nil
}

// RecordReply notes a new message on the ticket. The first public reply
// from someone other than the customer stops the first-response clock.
func (t *Ticket) RecordReply(senderID string, isInternal bool, at time.Time) {
	if t.firstResponseAt == nil && !isInternal && senderID != t.customerID {
		t.firstResponseAt = &at
	}
	t.touch()
}

// IsOverdue is true while no first response exists past the SLA deadline
// and the ticket is still being worked.
func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.slaDeadline == nil || t.firstResponseAt != nil || t.status.IsTerminal() {
		return false
	}
	return now.After(*t.slaDeadline)
}

// CanBeViewedBy allows staff everywhere and customers only on their own tickets.
func (t *Ticket) CanBeViewedBy(userID string, isStaff bool) bool {
	return isStaff || t.customerID == userID
}

func (t *Ticket) touch() {
	t.updatedAt = biztime.NowUTC()
	t.version++
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	return nil
}

// normalizeTags lowercases, trims and de-duplicates while keeping order.
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if len(tag) > maxTagLength {
			return nil, fmt.Errorf("tag %q exceeds maximum length of %d characters", tag, maxTagLength)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > maxTags {
		return nil, fmt.Errorf("a ticket can carry at most %d tags", maxTags)
	}
	return out, nil
}
