package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
)

// StateRepository defines the interface for state data access
type StateRepository interface {
	Create(ctx context.Context, state *domain.State) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.State, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.State, error)
	Update(ctx context.Context, state *domain.State) error
	UpdatePositions(ctx context.Context, projectID uuid.UUID, stateIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountWorkflowStepRefs(ctx context.Context, stateID uuid.UUID) (int64, error)
	CountTaskRefs(ctx context.Context, stateID uuid.UUID) (int64, error)
}

type stateRepositoryImpl struct {
	db *gorm.DB
}

// NewStateRepository creates a new instance of StateRepository
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepositoryImpl{db: db}
}

// Create creates a new state
func (r *stateRepositoryImpl) Create(ctx context.Context, state *domain.State) error {
	return r.db.WithContext(ctx).Create(state).Error
}

// FindByID finds a state by ID
func (r *stateRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.State, error) {
	var state domain.State
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// FindByProjectID finds all states of a project ordered by position
func (r *stateRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.State, error) {
	var states []*domain.State
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Update updates a state
func (r *stateRepositoryImpl) Update(ctx context.Context, state *domain.State) error {
	return r.db.WithContext(ctx).Save(state).Error
}

// UpdatePositions rewrites the position of every listed state in one transaction
func (r *stateRepositoryImpl) UpdatePositions(ctx context.Context, projectID uuid.UUID, stateIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, stateID := range stateIDs {
			if err := tx.Model(&domain.State{}).
				Where("id = ? AND project_id = ?", stateID, projectID).
				Update("position", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete soft deletes a state
func (r *stateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.State{}, id).Error
}

// CountWorkflowStepRefs counts workflow steps referencing the state
func (r *stateRepositoryImpl) CountWorkflowStepRefs(ctx context.Context, stateID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.WorkflowStep{}).
		Where("state_id = ?", stateID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountTaskRefs counts tasks currently sitting in the state
func (r *stateRepositoryImpl) CountTaskRefs(ctx context.Context, stateID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("state_id = ?", stateID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
