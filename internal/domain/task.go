package domain

import (
	"fmt"
	"time"
)

// Common task validation errors. Each wraps ErrValidation so callers can
// treat any of them as a validation failure without listing every sentinel.
var (
	ErrEmptyTitle    = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong  = fmt.Errorf("%w: title must be at most 255 characters", ErrValidation)
	ErrEmptyTaskUser = fmt.Errorf("%w: task must belong to a user", ErrValidation)
)

// Priority is the urgency level of a task. The string values do not sort
// alphabetically in priority order, so ordering always goes through Rank.
type Priority string

// Known priority levels.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// DefaultPriority is applied when a task is created without one.
	DefaultPriority = PriorityMedium
)

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the semantic sort rank of the priority: high sorts before
// medium, medium before low. Unknown values rank with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Task represents a single to-do item owned by a user. The owner is fixed
// at creation and never changes.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	EndDate     *time.Time `json:"end_date,omitempty"` // calendar date, no time-of-day semantics
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == 0 {
		return ErrEmptyTaskUser
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 255 {
		return ErrTitleTooLong
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// ParseEndDate parses an ISO 8601 calendar-date string (YYYY-MM-DD).
// An empty string yields a nil date.
func ParseEndDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, NewValidationError("end_date", "must be a valid date in YYYY-MM-DD format", ErrValidation)
	}
	d = d.UTC()
	return &d, nil
}
