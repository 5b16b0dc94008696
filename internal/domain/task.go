package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a trackable work item within a project. StateID is only
// softly bound to the type's workflow: it is checked when it changes, not
// via a hard constraint, so a type switch can leave it dangling.
type Task struct {
	BaseModel
	ProjectID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_tasks_project_id" json:"project_id"`
	TaskTypeID  *uuid.UUID       `gorm:"type:uuid;index:idx_tasks_task_type_id" json:"task_type_id"`
	StateID     *uuid.UUID       `gorm:"type:uuid;index:idx_tasks_state_id" json:"state_id"`
	OwnerID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_tasks_owner_id" json:"owner_id"`
	AssigneeID  *uuid.UUID       `gorm:"type:uuid;index:idx_tasks_assignee_id" json:"assignee_id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Status      string           `gorm:"type:varchar(50)" json:"status"`
	Priority    string           `gorm:"type:varchar(50)" json:"priority"`
	DueDate     *time.Time       `gorm:"type:timestamp;index:idx_tasks_due_date" json:"due_date"`
	FieldValues []TaskFieldValue `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"field_values,omitempty"`
	Project     Project          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TaskFieldValue holds one custom field value for a task, unique per
// (task, field). Rows for fields no longer assigned to the task's current
// type are kept but never treated as authoritative.
type TaskFieldValue struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_task_field_values_task;uniqueIndex:uq_task_field_values_task_field" json:"task_id"`
	FieldID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_task_field_values_field;uniqueIndex:uq_task_field_values_task_field" json:"field_id"`
	Value     *string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	Field     Field      `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"field,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TableName specifies the table name for TaskFieldValue
func (TaskFieldValue) TableName() string {
	return "task_field_values"
}
