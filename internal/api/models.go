package api

import (
	"encoding/json"

	"github.com/taskfolio/taskfolio-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	FirstName  string `json:"first_name"  validate:"required,alpha"`
	MiddleName string `json:"middle_name" validate:"omitempty,alpha"`
	LastName   string `json:"last_name"   validate:"required,alpha"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=6,max=72,passwordchars"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Message string `json:"message"`

	// Token is the JWT bearer token used for API authorization
	Token string `json:"token"`

	User *domain.User `json:"user"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`

	// EndDate is a calendar date in YYYY-MM-DD format.
	EndDate *string `json:"end_date" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// All fields are optional; only the ones present in the request body are
// applied. An explicit "end_date": null clears the due date, which is why
// presence is tracked separately from the value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	EndDate     *string `json:"end_date"    validate:"omitempty"`

	// EndDateSet records whether the end_date key appeared in the body at
	// all, distinguishing "leave unchanged" from "clear".
	EndDateSet bool `json:"-"`
}

// UnmarshalJSON decodes the update payload and records which keys were
// actually present in the body.
func (req *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTaskRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*req = UpdateTaskRequest(a)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, req.EndDateSet = keys["end_date"]
	return nil
}

// TaskResponse wraps a single task in a mutation response.
type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// Pagination describes the window returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskListResponse defines the response for the task list endpoint.
type TaskListResponse struct {
	Tasks      []*domain.Task `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports process and database health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
