package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// in-memory implementation mirrors the real store's semantics closely
// enough to exercise pagination, sorting and ownership scoping in
// handler tests.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, ownerID int64, input store.CreateTaskInput) (*domain.Task, error)
	ListFn    func(ctx context.Context, ownerID int64, opts store.ListTasksOptions) ([]*domain.Task, int, error)
	GetByIDFn func(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id, ownerID int64, input store.UpdateTaskInput) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id, ownerID int64) (bool, error)

	// Data for default in-memory implementation
	Tasks  map[int64]*domain.Task
	nextID int64

	// UpdateWriteCount counts actual writes (empty partial updates don't write).
	UpdateWriteCount int
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[int64]*domain.Task),
	}
}

// Create implements the store.TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, ownerID int64, input store.CreateTaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, input)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}

	m.nextID++
	now := time.Now().UTC()
	task := &domain.Task{
		ID:          m.nextID,
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		EndDate:     input.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		m.nextID--
		return nil, err
	}
	m.Tasks[task.ID] = task
	return task, nil
}

// List implements the store.TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, ownerID int64, opts store.ListTasksOptions) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, opts)
	}

	owned := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID == ownerID {
			owned = append(owned, task)
		}
	}
	total := len(owned)

	asc := strings.EqualFold(opts.SortOrder, store.SortAsc)
	switch opts.SortBy {
	case store.SortByPriority:
		sort.SliceStable(owned, func(i, j int) bool {
			if asc {
				return owned[i].Priority.Rank() < owned[j].Priority.Rank()
			}
			return owned[i].Priority.Rank() > owned[j].Priority.Rank()
		})
	case store.SortByEndDate:
		sort.SliceStable(owned, func(i, j int) bool {
			di, dj := owned[i].EndDate, owned[j].EndDate
			// Nulls always last, matching the real store's NULLS LAST.
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			if asc {
				return di.Before(*dj)
			}
			return dj.Before(*di)
		})
	default:
		sort.SliceStable(owned, func(i, j int) bool {
			if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
				return owned[i].ID > owned[j].ID
			}
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		})
	}

	page := opts.Page
	if page < 1 {
		page = store.DefaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = store.DefaultLimit
	}
	offset := (page - 1) * limit

	if offset >= len(owned) {
		return []*domain.Task{}, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

// GetByID implements the store.TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, ownerID)
	}

	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Update implements the store.TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, id, ownerID int64, input store.UpdateTaskInput) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, input)
	}

	task, err := m.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return task, nil
	}

	// Merge into a copy so a failed validation leaves the stored task
	// untouched, matching the real store's transactional update.
	updated := *task
	if input.Title != nil {
		updated.Title = *input.Title
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Priority != nil {
		updated.Priority = *input.Priority
	}
	if input.EndDateSet {
		updated.EndDate = input.EndDate
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()
	m.Tasks[id] = &updated
	m.UpdateWriteCount++
	return &updated, nil
}

// Delete implements the store.TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	task, ok := m.Tasks[id]
	if !ok || task.UserID != ownerID {
		return false, nil
	}
	delete(m.Tasks, id)
	return true, nil
}
