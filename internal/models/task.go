package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status is the completion state of a task. The only legal transition is the
// Pending <-> Completed toggle.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// DeadlineLayout is the calendar-date format used for task deadlines.
// Deadlines carry no time component.
const DeadlineLayout = "2006-01-02"

// Task represents a unit of study work owned by exactly one account.
type Task struct {
	// ID is the store-assigned numeric identifier.
	ID int64 `json:"id"`

	// AccountID is the owning account. Required; every read and write is
	// scoped by it.
	AccountID string `json:"userId"`

	// Subject is the non-empty description of what to study.
	Subject string `json:"subject"`

	// Deadline is the due date in YYYY-MM-DD form.
	Deadline string `json:"deadline"`

	// Hours is the estimated effort. Always > 0.
	Hours int `json:"hours"`

	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`

	// CreatedAt is the Unix timestamp when the task was created.
	CreatedAt int64 `json:"createdAt"`

	// CompletedAt is set on the Pending->Completed transition and cleared
	// on the toggle back.
	CompletedAt *int64 `json:"completedAt,omitempty"`
}

// ParsePriority validates and normalizes a priority string.
// An empty input defaults to medium.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority: %q", input)
	}
}

// ParseStatus validates a status string.
func ParseStatus(input string) (Status, error) {
	s := Status(strings.TrimSpace(input))
	switch s {
	case StatusPending, StatusCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status: %q", input)
	}
}

// ParseDeadline validates a deadline string and returns its canonical form.
func ParseDeadline(input string) (string, error) {
	t, err := time.Parse(DeadlineLayout, strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("invalid deadline: %q (want YYYY-MM-DD)", input)
	}
	return t.Format(DeadlineLayout), nil
}

// DeadlineTime returns the deadline as a time.Time at midnight UTC.
// Returns the zero time if the stored deadline is malformed.
func (t *Task) DeadlineTime() time.Time {
	d, err := time.Parse(DeadlineLayout, t.Deadline)
	if err != nil {
		return time.Time{}
	}
	return d
}
