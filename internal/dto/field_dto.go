package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateFieldRequest represents the request to create a custom field.
// Options applies only to select and radio fields.
type CreateFieldRequest struct {
	ProjectID    uuid.UUID `json:"projectId" binding:"required"`
	Name         string    `json:"name" binding:"required,max=200"`
	InputKind    string    `json:"inputKind" binding:"required,oneof=text textarea number date select checkbox radio"`
	IsRequired   bool      `json:"isRequired"`
	DefaultValue string    `json:"defaultValue"`
	Options      []string  `json:"options"`
}

// UpdateFieldRequest represents the request to update a custom field
type UpdateFieldRequest struct {
	Name         *string   `json:"name" binding:"omitempty,max=200"`
	IsRequired   *bool     `json:"isRequired"`
	DefaultValue *string   `json:"defaultValue"`
	Options      *[]string `json:"options"`
}

// AssignFieldsRequest represents the request to set the full field set for
// a task type. Prior assignments are replaced by the given set.
type AssignFieldsRequest struct {
	FieldIDs []uuid.UUID `json:"fieldIds" binding:"required"`
}

// FieldResponse represents the field response
type FieldResponse struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"projectId"`
	Name         string    `json:"name"`
	InputKind    string    `json:"inputKind"`
	IsRequired   bool      `json:"isRequired"`
	DefaultValue string    `json:"defaultValue"`
	Options      []string  `json:"options,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
