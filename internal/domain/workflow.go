package domain

import "github.com/google/uuid"

// Workflow represents a named graph over a subset of a project's states.
// Steps are the states usable within the workflow; Transitions are the
// directed edges that make a state change legal.
type Workflow struct {
	BaseModel
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_workflows_project_id;uniqueIndex:uq_workflows_project_name,priority:1" json:"project_id"`
	Name        string         `gorm:"type:varchar(255);not null;uniqueIndex:uq_workflows_project_name,priority:2" json:"name"`
	Steps       []WorkflowStep `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Transitions []Transition   `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"transitions,omitempty"`
	Project     Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// WorkflowStep binds a state into a workflow at a given order
type WorkflowStep struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkflowID uuid.UUID `gorm:"type:uuid;not null;index:idx_workflow_steps_workflow_id;uniqueIndex:uq_workflow_steps_workflow_state" json:"workflow_id"`
	StateID    uuid.UUID `gorm:"type:uuid;not null;index:idx_workflow_steps_state_id;uniqueIndex:uq_workflow_steps_workflow_state" json:"state_id"`
	StepOrder  int       `gorm:"type:int;not null;default:0" json:"step_order"`
	State      State     `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

// Transition represents a directed edge in a workflow's graph.
// A nil FromStateID is the wildcard: the target is reachable from every
// state in the workflow. This is the only representation of "any state";
// sentinel ids are never used.
type Transition struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkflowID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_transitions_workflow_id" json:"workflow_id"`
	FromStateID *uuid.UUID `gorm:"type:uuid;index:idx_transitions_from_state" json:"from_state_id"`
	ToStateID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_transitions_to_state" json:"to_state_id"`
}

// IsWildcard reports whether the transition is reachable from any state
func (t Transition) IsWildcard() bool {
	return t.FromStateID == nil
}

// TableName specifies the table name for Workflow
func (Workflow) TableName() string {
	return "workflows"
}

// TableName specifies the table name for WorkflowStep
func (WorkflowStep) TableName() string {
	return "workflow_steps"
}

// TableName specifies the table name for Transition
func (Transition) TableName() string {
	return "transitions"
}
