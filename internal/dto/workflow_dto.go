package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransitionInput represents one directed edge in a workflow authoring
// request. A nil FromStateID is the wildcard ("from any state").
type TransitionInput struct {
	FromStateID *uuid.UUID `json:"fromStateId"`
	ToStateID   uuid.UUID  `json:"toStateId" binding:"required"`
}

// CreateWorkflowRequest represents the request to create a workflow.
// StepStateIDs lists the usable states in step order.
type CreateWorkflowRequest struct {
	ProjectID    uuid.UUID         `json:"projectId" binding:"required"`
	Name         string            `json:"name" binding:"required,max=255"`
	StepStateIDs []uuid.UUID       `json:"stepStateIds" binding:"required,min=1"`
	Transitions  []TransitionInput `json:"transitions"`
}

// UpdateWorkflowRequest represents the request to update a workflow.
// StepStateIDs and Transitions, when present, replace the existing sets.
type UpdateWorkflowRequest struct {
	Name         *string            `json:"name" binding:"omitempty,max=255"`
	StepStateIDs *[]uuid.UUID       `json:"stepStateIds"`
	Transitions  *[]TransitionInput `json:"transitions"`
}

// WorkflowStepResponse represents one step of a workflow
type WorkflowStepResponse struct {
	StateID   uuid.UUID `json:"stateId"`
	StateName string    `json:"stateName"`
	StepOrder int       `json:"stepOrder"`
}

// TransitionResponse represents one transition of a workflow
type TransitionResponse struct {
	ID          uuid.UUID  `json:"id"`
	FromStateID *uuid.UUID `json:"fromStateId"`
	ToStateID   uuid.UUID  `json:"toStateId"`
}

// WorkflowResponse represents the workflow response
type WorkflowResponse struct {
	ID          uuid.UUID              `json:"id"`
	ProjectID   uuid.UUID              `json:"projectId"`
	Name        string                 `json:"name"`
	Steps       []WorkflowStepResponse `json:"steps"`
	Transitions []TransitionResponse   `json:"transitions"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}
