package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/platform/logger"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// taskColumns is the column list shared by every SELECT on tasks.
const taskColumns = "id, user_id, title, description, priority, end_date, created_at, updated_at"

// priorityRankExpr orders the priority enum by semantic rank instead of
// its lexical order ("high" < "low" < "medium" alphabetically, which is
// wrong). Rank 1 is high, 2 medium, 3 low; unexpected values rank with
// medium.
const priorityRankExpr = "CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 2 END"

// orderClause builds the ORDER BY clause for a task listing. Both inputs
// come from a fixed enum validated at the API boundary; nothing here is
// caller-controlled text.
func orderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, store.SortAsc) {
		dir = "ASC"
	}

	switch sortBy {
	case store.SortByEndDate:
		// Tasks without a due date always sort after dated ones.
		return "ORDER BY end_date " + dir + " NULLS LAST"
	case store.SortByPriority:
		return "ORDER BY " + priorityRankExpr + " " + dir
	default:
		return "ORDER BY created_at DESC"
	}
}

// Create implements store.TaskStore.Create
// Priority defaults to medium when the input leaves it empty. The store
// assigns ID, CreatedAt and UpdatedAt.
func (s *PostgresTaskStore) Create(ctx context.Context, ownerID int64, input store.CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	priority := input.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}

	task := &domain.Task{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		EndDate:     input.EndDate,
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, err
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO tasks (user_id, title, description, priority, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		nullableText(task.Description),
		string(task.Priority),
		nullableDate(task.EndDate),
		now,
		now,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("unknown owner during task creation",
				slog.Int64("user_id", ownerID))
			return nil, MapError(err)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", ownerID),
		slog.String("priority", string(task.Priority)))
	return task, nil
}

// List implements store.TaskStore.List
// It returns one page of the owner's tasks plus the total count of all
// their tasks, which is independent of the requested page.
func (s *PostgresTaskStore) List(ctx context.Context, ownerID int64, opts store.ListTasksOptions) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page := opts.Page
	if page < 1 {
		page = store.DefaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = store.DefaultLimit
	}
	offset := (page - 1) * limit

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		` + orderClause(opts.SortBy, opts.SortOrder) + `
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, 0, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0, limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.Int64("user_id", ownerID))
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, 0, MapError(err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, 0, MapError(err)
	}

	return tasks, total, nil
}

// GetByID implements store.TaskStore.GetByID
// The ownership predicate is part of the WHERE clause, so a task owned by
// someone else is indistinguishable from a missing one.
// Returns store.ErrTaskNotFound in both cases.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	row := s.db.QueryRowContext(ctx, query, id, ownerID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found or not owned",
				slog.Int64("task_id", id),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// Ownership is confirmed first; only the fields present in the input are
// changed. An empty input returns the current record without writing.
// When the store is backed by a plain connection the read and write run in
// one transaction, so the merge cannot clobber a concurrent update.
func (s *PostgresTaskStore) Update(ctx context.Context, id, ownerID int64, input store.UpdateTaskInput) (*domain.Task, error) {
	if db, ok := s.db.(*sql.DB); ok {
		var updated *domain.Task
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var txErr error
			updated, txErr = s.WithTx(tx).update(ctx, id, ownerID, input)
			return txErr
		})
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return s.update(ctx, id, ownerID, input)
}

func (s *PostgresTaskStore) update(ctx context.Context, id, ownerID int64, input store.UpdateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.IsEmpty() {
		log.Debug("empty task update, returning current record",
			slog.Int64("task_id", id))
		return existing, nil
	}

	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Priority != nil {
		existing.Priority = *input.Priority
	}
	if input.EndDateSet {
		existing.EndDate = input.EndDate
	}
	if err := existing.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, end_date = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(
		ctx,
		query,
		existing.Title,
		nullableText(existing.Description),
		string(existing.Priority),
		nullableDate(existing.EndDate),
		time.Now().UTC(),
		id,
		ownerID,
	).Scan(&existing.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The row vanished between the ownership check and the write;
			// surfaces as not-found per the ownership contract.
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", id),
		slog.Int64("user_id", ownerID))
	return existing, nil
}

// Delete implements store.TaskStore.Delete
// Returns false when the task is absent or owned by someone else, so a
// repeated delete reports false rather than an error.
func (s *PostgresTaskStore) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, MapError(err)
	}

	if affected == 0 {
		log.Debug("delete matched no task",
			slog.Int64("task_id", id),
			slog.Int64("user_id", ownerID))
		return false, nil
	}

	log.Info("task deleted successfully",
		slog.Int64("task_id", id),
		slog.Int64("user_id", ownerID))
	return true, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row into a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var priority string
	var endDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&priority,
		&endDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Priority = domain.Priority(priority)
	if endDate.Valid {
		d := endDate.Time
		task.EndDate = &d
	}
	return &task, nil
}

// nullableText maps an empty string to SQL NULL.
func nullableText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullableDate maps a nil time to SQL NULL.
func nullableDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
