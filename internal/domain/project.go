package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a project entity owning states, workflows, fields and tasks
type Project struct {
	BaseModel
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_projects_owner_id" json:"owner_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	States      []State         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"states,omitempty"`
	Workflows   []Workflow      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"workflows,omitempty"`
	Fields      []Field         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
	TaskTypes   []TaskType      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"task_types,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// ProjectRole represents the role of a project member
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
)

// ProjectMember represents a member of a project
type ProjectMember struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID   `gorm:"type:uuid;not null;index:idx_project_members_project_id;uniqueIndex:uq_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_project_members_user_id;uniqueIndex:uq_project_members_project_user" json:"user_id"`
	RoleName  ProjectRole `gorm:"type:varchar(50);not null;index:idx_project_members_role" json:"role_name"`
	JoinedAt  time.Time   `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	Project   Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName specifies the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
