package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID, filters dto.TaskFilters) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateWithFieldValues(ctx context.Context, task *domain.Task, values []domain.TaskFieldValue) error
	UpsertFieldValues(ctx context.Context, values []domain.TaskFieldValue) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOrphanedFieldValues(ctx context.Context) (int64, error)
}

type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with its field values preloaded
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("FieldValues").
		Preload("FieldValues.Field").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProjectID finds all tasks of a project, optionally filtered
func (r *taskRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID, filters dto.TaskFilters) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("FieldValues").
		Preload("FieldValues.Field").
		Where("project_id = ?", projectID)

	if filters.StateID != nil {
		query = query.Where("state_id = ?", *filters.StateID)
	}
	if filters.TaskTypeID != nil {
		query = query.Where("task_type_id = ?", *filters.TaskTypeID)
	}
	if filters.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filters.AssigneeID)
	}

	var tasks []*domain.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists the task's scalar attributes
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).
		Omit("FieldValues").
		Save(task).Error
}

// UpdateWithFieldValues persists the task and its field values in one transaction
func (r *taskRepositoryImpl) UpdateWithFieldValues(ctx context.Context, task *domain.Task, values []domain.TaskFieldValue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("FieldValues").Save(task).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		return upsertFieldValues(tx, values)
	})
}

// UpsertFieldValues inserts or updates field value rows keyed by (task, field)
func (r *taskRepositoryImpl) UpsertFieldValues(ctx context.Context, values []domain.TaskFieldValue) error {
	if len(values) == 0 {
		return nil
	}
	return upsertFieldValues(r.db.WithContext(ctx), values)
}

func upsertFieldValues(db *gorm.DB, values []domain.TaskFieldValue) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&values).Error
}

// Delete soft deletes a task
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, id).Error
}

// DeleteOrphanedFieldValues removes field value rows whose task has been soft deleted
func (r *taskRepositoryImpl) DeleteOrphanedFieldValues(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("task_id IN (?)", r.db.
			Model(&domain.Task{}).
			Unscoped().
			Select("id").
			Where("deleted_at IS NOT NULL")).
		Delete(&domain.TaskFieldValue{})
	return result.RowsAffected, result.Error
}
