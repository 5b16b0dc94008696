package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldInputKind represents the input kind of a custom field
type FieldInputKind string

// FieldInputKind constants
const (
	FieldInputText     FieldInputKind = "text"
	FieldInputTextarea FieldInputKind = "textarea"
	FieldInputNumber   FieldInputKind = "number"
	FieldInputDate     FieldInputKind = "date"
	FieldInputSelect   FieldInputKind = "select"
	FieldInputCheckbox FieldInputKind = "checkbox"
	FieldInputRadio    FieldInputKind = "radio"
)

// Field represents an admin-defined custom field within a project.
// Options is a JSON array of selectable values and applies only to
// select and radio fields.
type Field struct {
	BaseModel
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_fields_project_id;uniqueIndex:uq_fields_project_name,priority:1" json:"project_id"`
	Name         string         `gorm:"type:varchar(200);not null;uniqueIndex:uq_fields_project_name,priority:2" json:"name"`
	InputKind    FieldInputKind `gorm:"type:varchar(50);not null" json:"input_kind"`
	IsRequired   bool           `gorm:"type:boolean;not null;default:false" json:"is_required"`
	DefaultValue string         `gorm:"type:text" json:"default_value"`
	Options      datatypes.JSON `gorm:"type:jsonb" json:"options"`
	Project      Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// FieldAssignment binds a field to a task type. Assignments for a type are
// replaced as a whole set; there is no per-row update path.
type FieldAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_field_assignments_task_type;uniqueIndex:uq_field_assignments_type_field" json:"task_type_id"`
	FieldID    uuid.UUID `gorm:"type:uuid;not null;index:idx_field_assignments_field;uniqueIndex:uq_field_assignments_type_field" json:"field_id"`
	Field      Field     `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"field,omitempty"`
}

// TableName specifies the table name for Field
func (Field) TableName() string {
	return "fields"
}

// TableName specifies the table name for FieldAssignment
func (FieldAssignment) TableName() string {
	return "field_assignments"
}
