package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
)

// FieldRepository defines the interface for field and field assignment data access
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Field, error)
	Update(ctx context.Context, field *domain.Field) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceAssignments(ctx context.Context, taskTypeID uuid.UUID, fieldIDs []uuid.UUID) error
	FindAssignedByTaskType(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error)
	CountAssignmentRefs(ctx context.Context, fieldID uuid.UUID) (int64, error)
}

type fieldRepositoryImpl struct {
	db *gorm.DB
}

// NewFieldRepository creates a new instance of FieldRepository
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepositoryImpl{db: db}
}

// Create creates a new field
func (r *fieldRepositoryImpl) Create(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// FindByID finds a field by ID
func (r *fieldRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	var field domain.Field
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByProjectID finds all fields of a project
func (r *fieldRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// Update updates a field
func (r *fieldRepositoryImpl) Update(ctx context.Context, field *domain.Field) error {
	return r.db.WithContext(ctx).Save(field).Error
}

// Delete soft deletes a field
func (r *fieldRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Field{}, id).Error
}

// ReplaceAssignments replaces the field assignments of a task type in one transaction
func (r *fieldRepositoryImpl) ReplaceAssignments(ctx context.Context, taskTypeID uuid.UUID, fieldIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("task_type_id = ?", taskTypeID).
			Delete(&domain.FieldAssignment{}).Error; err != nil {
			return err
		}
		if len(fieldIDs) == 0 {
			return nil
		}
		assignments := make([]domain.FieldAssignment, 0, len(fieldIDs))
		for _, fieldID := range fieldIDs {
			assignments = append(assignments, domain.FieldAssignment{
				TaskTypeID: taskTypeID,
				FieldID:    fieldID,
			})
		}
		return tx.Create(&assignments).Error
	})
}

// FindAssignedByTaskType finds the fields assigned to a task type
func (r *fieldRepositoryImpl) FindAssignedByTaskType(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
	var fields []*domain.Field
	if err := r.db.WithContext(ctx).
		Joins("JOIN field_assignments ON field_assignments.field_id = fields.id").
		Where("field_assignments.task_type_id = ?", taskTypeID).
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// CountAssignmentRefs counts task types the field is assigned to
func (r *fieldRepositoryImpl) CountAssignmentRefs(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.FieldAssignment{}).
		Where("field_id = ?", fieldID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
