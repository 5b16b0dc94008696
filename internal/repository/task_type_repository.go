package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
)

// TaskTypeRepository defines the interface for task type data access
type TaskTypeRepository interface {
	Create(ctx context.Context, taskType *domain.TaskType) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskType, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskType, error)
	Update(ctx context.Context, taskType *domain.TaskType) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountTaskRefs(ctx context.Context, taskTypeID uuid.UUID) (int64, error)
}

type taskTypeRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskTypeRepository creates a new instance of TaskTypeRepository
func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &taskTypeRepositoryImpl{db: db}
}

// Create creates a new task type
func (r *taskTypeRepositoryImpl) Create(ctx context.Context, taskType *domain.TaskType) error {
	return r.db.WithContext(ctx).Create(taskType).Error
}

// FindByID finds a task type by ID
func (r *taskTypeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
	var taskType domain.TaskType
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&taskType).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

// FindByProjectID finds all task types of a project
func (r *taskTypeRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskType, error) {
	var taskTypes []*domain.TaskType
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&taskTypes).Error; err != nil {
		return nil, err
	}
	return taskTypes, nil
}

// Update updates a task type
func (r *taskTypeRepositoryImpl) Update(ctx context.Context, taskType *domain.TaskType) error {
	return r.db.WithContext(ctx).Save(taskType).Error
}

// Delete soft deletes a task type
func (r *taskTypeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TaskType{}, id).Error
}

// CountTaskRefs counts tasks referencing the task type
func (r *taskTypeRepositoryImpl) CountTaskRefs(ctx context.Context, taskTypeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("task_type_id = ?", taskTypeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
