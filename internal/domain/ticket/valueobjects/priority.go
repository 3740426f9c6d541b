package valueobjects

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var prioritySLAHours = map[Priority]int{
	PriorityLow:    72,
	PriorityMedium: 24,
	PriorityHigh:   8,
	PriorityUrgent: 2,
}

var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := prioritySLAHours[p]
	return ok
}

// SLA is the response window granted for this priority.
func (p Priority) SLA() time.Duration {
	hours, ok := prioritySLAHours[p]
	if !ok {
		hours = prioritySLAHours[PriorityLow]
	}
	return time.Duration(hours) * time.Hour
}

// Rank orders priorities from low (0) to urgent (3).
func (p Priority) Rank() int {
	return priorityRank[p]
}

func (p Priority) Label() string {
	return label(string(p))
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
