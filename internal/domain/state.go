package domain

import "github.com/google/uuid"

// State represents a named workflow state within a project.
// Position defines display order only; it has no bearing on transition legality.
type State struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_states_project_id;uniqueIndex:uq_states_project_name,priority:1" json:"project_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_states_project_name,priority:2" json:"name"`
	Position  int       `gorm:"type:int;not null;default:0;index:idx_states_position" json:"position"`
	Project   Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TableName specifies the table name for State
func (State) TableName() string {
	return "states"
}
