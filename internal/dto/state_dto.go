package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateStateRequest represents the request to create a state
type CreateStateRequest struct {
	ProjectID uuid.UUID `json:"projectId" binding:"required"`
	Name      string    `json:"name" binding:"required,max=100"`
	Position  int       `json:"position"`
}

// UpdateStateRequest represents the request to rename or reposition a state
type UpdateStateRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Position *int    `json:"position"`
}

// ReorderStatesRequest represents the request to reorder a project's states.
// StateIDs lists all the project's states in their new display order.
type ReorderStatesRequest struct {
	StateIDs []uuid.UUID `json:"stateIds" binding:"required,min=1"`
}

// StateResponse represents the state response
type StateResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
