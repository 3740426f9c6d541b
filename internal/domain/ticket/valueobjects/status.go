package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusNew        TicketStatus = "new"
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusNew:        true,
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
}

// Resolved and closed tickets reopen by moving back to open.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusNew:        {StatusOpen, StatusInProgress, StatusResolved, StatusClosed},
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusResolved, StatusClosed},
	StatusResolved:   {StatusOpen, StatusClosed},
	StatusClosed:     {StatusOpen},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the SLA clock has stopped.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusResolved || ts == StatusClosed
}

func (ts TicketStatus) Label() string {
	return label(string(ts))
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// AllStatuses lists statuses in workflow order.
func AllStatuses() []TicketStatus {
	return []TicketStatus{StatusNew, StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}
