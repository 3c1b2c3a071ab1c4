package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskfolio/taskfolio-api/internal/api/shared"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// TaskHandler handles task CRUD API requests. All operations are scoped to
// the authenticated user; a task belonging to someone else is
// indistinguishable from a task that does not exist.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: newValidator(),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Trim before validation so a whitespace-only title fails required.
	req.Title = strings.TrimSpace(req.Title)

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	input := store.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		EndDate:     endDate,
	}

	task, err := h.taskStore.Create(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// ListTasks handles GET /tasks with pagination and sorting query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	opts := store.ListTasksOptions{
		Page:      queryInt(r, "page", store.DefaultPage),
		Limit:     queryInt(r, "limit", store.DefaultLimit),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}

	tasks, total, err := h.taskStore.List(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}

	totalPages := total / opts.Limit
	if total%opts.Limit != 0 {
		totalPages++
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", nil)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id} as a partial update. Only fields
// present in the body are changed; an empty body returns the task as-is.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := store.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		EndDateSet:  req.EndDateSet,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.EndDateSet {
		endDate, err := parseOptionalDate(req.EndDate)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		input.EndDate = endDate
	}

	task, err := h.taskStore.Update(r.Context(), taskID, userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", nil)
	if !ok {
		return
	}

	deleted, err := h.taskStore.Delete(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Task deleted successfully",
	})
}

// parseOptionalDate converts an optional YYYY-MM-DD string into a date.
// A nil or empty input yields a nil date.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	return domain.ParseEndDate(*raw)
}
