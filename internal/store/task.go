package store

import (
	"context"
	"time"

	"github.com/taskfolio/taskfolio-api/internal/domain"
)

// Task list sort fields. Anything else falls back to creation time.
const (
	SortByEndDate  = "end_date"
	SortByPriority = "priority"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Defaults for task listing.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// The owner is passed separately and never read from the input.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority // defaults to medium when empty
	EndDate     *time.Time
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged;
// non-nil fields overwrite. The end date needs a separate presence flag
// because "provided as null" (clear the date) and "omitted" must behave
// differently.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	EndDate     *time.Time
	EndDateSet  bool // true when the caller supplied the end_date field at all
}

// IsEmpty reports whether the update carries no fields at all.
func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Priority == nil && !in.EndDateSet
}

// ListTasksOptions controls pagination and ordering of task listings.
type ListTasksOptions struct {
	Page      int    // 1-indexed, defaults to DefaultPage
	Limit     int    // defaults to DefaultLimit
	SortBy    string // SortByEndDate, SortByPriority, or "" for creation time
	SortOrder string // SortAsc or SortDesc; defaults to SortDesc
}

// TaskStore defines the interface for task data persistence. Every
// operation is scoped to an owner ID supplied by the caller; the store
// never trusts ownership information from anywhere else.
type TaskStore interface {
	// Create persists a new task owned by ownerID. Priority defaults to
	// medium when the input leaves it empty. The store assigns ID,
	// CreatedAt and UpdatedAt.
	Create(ctx context.Context, ownerID int64, input CreateTaskInput) (*domain.Task, error)

	// List returns one page of the owner's tasks plus the total count of
	// all their tasks (independent of the page).
	List(ctx context.Context, ownerID int64, opts ListTasksOptions) ([]*domain.Task, int, error)

	// GetByID retrieves a task by ID, verifying ownership. Returns
	// ErrTaskNotFound when the task does not exist or belongs to a
	// different owner; callers cannot tell the two apart.
	GetByID(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// Update applies a partial update to an owned task. Only non-nil
	// fields change. An empty input returns the current record without
	// writing. Returns ErrTaskNotFound on missing task or ownership
	// mismatch.
	Update(ctx context.Context, id, ownerID int64, input UpdateTaskInput) (*domain.Task, error)

	// Delete removes an owned task. Returns false when the task is absent
	// or owned by someone else; deleting twice reports false the second
	// time.
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}
