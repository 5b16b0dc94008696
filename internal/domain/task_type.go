package domain

import "github.com/google/uuid"

// TaskType represents a task category, optionally bound to a workflow.
// The workflow governs which state changes are legal for tasks of this
// type; a type without a workflow accepts any state assignment.
type TaskType struct {
	BaseModel
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_task_types_project_id;uniqueIndex:uq_task_types_project_name,priority:1" json:"project_id"`
	Name       string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_task_types_project_name,priority:2" json:"name"`
	WorkflowID *uuid.UUID `gorm:"type:uuid;index:idx_task_types_workflow_id" json:"workflow_id"`
	Workflow   *Workflow  `gorm:"foreignKey:WorkflowID" json:"workflow,omitempty"`
	Project    Project    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TableName specifies the table name for TaskType
func (TaskType) TableName() string {
	return "task_types"
}
