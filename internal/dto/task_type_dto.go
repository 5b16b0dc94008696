package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskTypeRequest represents the request to create a task type.
// WorkflowID is optional; a type without a workflow skips transition checks.
type CreateTaskTypeRequest struct {
	ProjectID  uuid.UUID  `json:"projectId" binding:"required"`
	Name       string     `json:"name" binding:"required,max=100"`
	WorkflowID *uuid.UUID `json:"workflowId"`
}

// UpdateTaskTypeRequest represents the request to update a task type
type UpdateTaskTypeRequest struct {
	Name       *string    `json:"name" binding:"omitempty,max=100"`
	WorkflowID *uuid.UUID `json:"workflowId"`
}

// TaskTypeResponse represents the task type response
type TaskTypeResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"projectId"`
	Name       string     `json:"name"`
	WorkflowID *uuid.UUID `json:"workflowId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
