package dto

import (
	"time"

	"github.com/google/uuid"
)

// FieldValueInput represents one proposed custom field value
type FieldValueInput struct {
	FieldID uuid.UUID `json:"field_id" binding:"required"`
	Value   string    `json:"value"`
}

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	ProjectID   uuid.UUID         `json:"project_id" binding:"required"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	TaskTypeID  *uuid.UUID        `json:"task_type_id"`
	StateID     *uuid.UUID        `json:"state_id"`
	AssigneeID  *uuid.UUID        `json:"assignee_id"`
	DueDate     *time.Time        `json:"due_date"`
	FieldValues []FieldValueInput `json:"field_values"`
}

// UpdateTaskRequest represents the request to update a task. Name is the
// only required field; nil pointers mean "leave unchanged". A nil
// FieldValues slice means no field values were submitted at all.
type UpdateTaskRequest struct {
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Status      *string           `json:"status"`
	Priority    *string           `json:"priority"`
	TaskTypeID  *uuid.UUID        `json:"task_type_id"`
	StateID     *uuid.UUID        `json:"state_id"`
	AssigneeID  *uuid.UUID        `json:"assignee_id"`
	DueDate     *time.Time        `json:"due_date"`
	FieldValues []FieldValueInput `json:"field_values"`
}

// TaskFieldValueResponse represents one stored custom field value
type TaskFieldValueResponse struct {
	FieldID   uuid.UUID `json:"fieldId"`
	FieldName string    `json:"fieldName"`
	Value     *string   `json:"value"`
}

// TaskResponse represents the task response. FieldValues contains only
// values for fields assigned to the task's current type.
type TaskResponse struct {
	ID          uuid.UUID                `json:"id"`
	ProjectID   uuid.UUID                `json:"projectId"`
	TaskTypeID  *uuid.UUID               `json:"taskTypeId"`
	StateID     *uuid.UUID               `json:"stateId"`
	OwnerID     uuid.UUID                `json:"ownerId"`
	AssigneeID  *uuid.UUID               `json:"assigneeId"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Status      string                   `json:"status"`
	Priority    string                   `json:"priority"`
	DueDate     *time.Time               `json:"dueDate"`
	FieldValues []TaskFieldValueResponse `json:"fieldValues"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// TaskFilters represents optional list filters for tasks of a project
type TaskFilters struct {
	StateID    *uuid.UUID
	TaskTypeID *uuid.UUID
	AssigneeID *uuid.UUID
}
