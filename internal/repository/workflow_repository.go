package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
)

// WorkflowRepository defines the interface for workflow data access
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *domain.Workflow) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Workflow, error)
	Update(ctx context.Context, workflow *domain.Workflow) error
	ReplaceSteps(ctx context.Context, workflowID uuid.UUID, steps []domain.WorkflowStep) error
	ReplaceTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) error
	FindTransitionsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, error)
	FindStepsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.WorkflowStep, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountTaskTypeRefs(ctx context.Context, workflowID uuid.UUID) (int64, error)
}

type workflowRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new instance of WorkflowRepository
func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepositoryImpl{db: db}
}

// Create creates a workflow together with its steps and transitions
func (r *workflowRepositoryImpl) Create(ctx context.Context, workflow *domain.Workflow) error {
	return r.db.WithContext(ctx).Create(workflow).Error
}

// FindByID finds a workflow by ID with steps and transitions preloaded
func (r *workflowRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	var workflow domain.Workflow
	if err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Steps.State").
		Preload("Transitions").
		Where("id = ?", id).
		First(&workflow).Error; err != nil {
		return nil, err
	}
	return &workflow, nil
}

// FindByProjectID finds all workflows of a project
func (r *workflowRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Workflow, error) {
	var workflows []*domain.Workflow
	if err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("Transitions").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

// Update updates workflow attributes
func (r *workflowRepositoryImpl) Update(ctx context.Context, workflow *domain.Workflow) error {
	return r.db.WithContext(ctx).
		Model(&domain.Workflow{}).
		Where("id = ?", workflow.ID).
		Update("name", workflow.Name).Error
}

// ReplaceSteps replaces the step list of a workflow in one transaction
func (r *workflowRepositoryImpl) ReplaceSteps(ctx context.Context, workflowID uuid.UUID, steps []domain.WorkflowStep) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("workflow_id = ?", workflowID).
			Delete(&domain.WorkflowStep{}).Error; err != nil {
			return err
		}
		if len(steps) == 0 {
			return nil
		}
		return tx.Create(&steps).Error
	})
}

// ReplaceTransitions replaces the transition list of a workflow in one transaction
func (r *workflowRepositoryImpl) ReplaceTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("workflow_id = ?", workflowID).
			Delete(&domain.Transition{}).Error; err != nil {
			return err
		}
		if len(transitions) == 0 {
			return nil
		}
		return tx.Create(&transitions).Error
	})
}

// FindTransitionsByWorkflowID finds all transitions of a workflow
func (r *workflowRepositoryImpl) FindTransitionsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, error) {
	var transitions []domain.Transition
	if err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Find(&transitions).Error; err != nil {
		return nil, err
	}
	return transitions, nil
}

// FindStepsByWorkflowID finds all steps of a workflow ordered by step order
func (r *workflowRepositoryImpl) FindStepsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.WorkflowStep, error) {
	var steps []domain.WorkflowStep
	if err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("step_order ASC").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

// Delete soft deletes a workflow
func (r *workflowRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Workflow{}, id).Error
}

// CountTaskTypeRefs counts task types bound to the workflow
func (r *workflowRepositoryImpl) CountTaskTypeRefs(ctx context.Context, workflowID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.TaskType{}).
		Where("workflow_id = ?", workflowID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
