package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// UpdateProjectRequest represents the request to update a project
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AddMemberRequest represents the request to add a project member
type AddMemberRequest struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	RoleName string    `json:"roleName" binding:"required,oneof=OWNER ADMIN MEMBER"`
}

// MemberResponse represents a project member response
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	RoleName  string    `json:"roleName"`
	JoinedAt  time.Time `json:"joinedAt"`
}
