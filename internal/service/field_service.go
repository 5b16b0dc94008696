package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/response"
)

// FieldService defines the interface for custom field business logic
type FieldService interface {
	CreateField(ctx context.Context, userID uuid.UUID, req *dto.CreateFieldRequest) (*dto.FieldResponse, error)
	ListFields(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.FieldResponse, error)
	UpdateField(ctx context.Context, userID, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error)
	DeleteField(ctx context.Context, userID, fieldID uuid.UUID) error
	AssignFields(ctx context.Context, userID, taskTypeID uuid.UUID, req *dto.AssignFieldsRequest) ([]*dto.FieldResponse, error)
	ListAssignedFields(ctx context.Context, userID, taskTypeID uuid.UUID) ([]*dto.FieldResponse, error)
}

type fieldServiceImpl struct {
	fieldRepo    repository.FieldRepository
	taskTypeRepo repository.TaskTypeRepository
	projectRepo  repository.ProjectRepository
}

// NewFieldService creates a new instance of FieldService
func NewFieldService(
	fieldRepo repository.FieldRepository,
	taskTypeRepo repository.TaskTypeRepository,
	projectRepo repository.ProjectRepository,
) FieldService {
	return &fieldServiceImpl{
		fieldRepo:    fieldRepo,
		taskTypeRepo: taskTypeRepo,
		projectRepo:  projectRepo,
	}
}

// CreateField creates a custom field. Options are accepted only for the
// select and radio input kinds.
func (s *fieldServiceImpl) CreateField(ctx context.Context, userID uuid.UUID, req *dto.CreateFieldRequest) (*dto.FieldResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, req.ProjectID, userID); appErr != nil {
		return nil, appErr
	}

	kind := domain.FieldInputKind(req.InputKind)
	options, appErr := encodeOptions(kind, req.Options)
	if appErr != nil {
		return nil, appErr
	}

	field := &domain.Field{
		ProjectID:    req.ProjectID,
		Name:         req.Name,
		InputKind:    kind,
		IsRequired:   req.IsRequired,
		DefaultValue: req.DefaultValue,
		Options:      options,
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create field", err.Error())
	}
	return toFieldResponse(field), nil
}

// ListFields lists the custom fields of a project
func (s *fieldServiceImpl) ListFields(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.FieldResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	fields, err := s.fieldRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list fields", err.Error())
	}
	return toFieldResponses(fields), nil
}

// UpdateField updates a custom field's attributes. The input kind is fixed
// at creation.
func (s *fieldServiceImpl) UpdateField(ctx context.Context, userID, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error) {
	field, appErr := s.loadField(ctx, userID, fieldID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		field.Name = *req.Name
	}
	if req.IsRequired != nil {
		field.IsRequired = *req.IsRequired
	}
	if req.DefaultValue != nil {
		field.DefaultValue = *req.DefaultValue
	}
	if req.Options != nil {
		options, appErr := encodeOptions(field.InputKind, *req.Options)
		if appErr != nil {
			return nil, appErr
		}
		field.Options = options
	}
	if err := s.fieldRepo.Update(ctx, field); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update field", err.Error())
	}
	return toFieldResponse(field), nil
}

// DeleteField deletes a custom field unless task types still use it
func (s *fieldServiceImpl) DeleteField(ctx context.Context, userID, fieldID uuid.UUID) error {
	field, appErr := s.loadField(ctx, userID, fieldID)
	if appErr != nil {
		return appErr
	}

	refs, err := s.fieldRepo.CountAssignmentRefs(ctx, field.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check field references", err.Error())
	}
	if refs > 0 {
		return response.NewValidationError("Field is assigned to task types and cannot be deleted", "")
	}

	if err := s.fieldRepo.Delete(ctx, field.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete field", err.Error())
	}
	return nil
}

// AssignFields replaces the full field set of a task type. Every field
// must belong to the task type's project. An empty list clears all
// assignments.
func (s *fieldServiceImpl) AssignFields(ctx context.Context, userID, taskTypeID uuid.UUID, req *dto.AssignFieldsRequest) ([]*dto.FieldResponse, error) {
	taskType, appErr := s.loadTaskType(ctx, userID, taskTypeID)
	if appErr != nil {
		return nil, appErr
	}

	projectFields, err := s.fieldRepo.FindByProjectID(ctx, taskType.ProjectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load project fields", err.Error())
	}
	known := make(map[uuid.UUID]struct{}, len(projectFields))
	for _, field := range projectFields {
		known[field.ID] = struct{}{}
	}
	for _, fieldID := range req.FieldIDs {
		if _, ok := known[fieldID]; !ok {
			return nil, response.NewValidationError("Fields must belong to the task type's project", "")
		}
	}

	if err := s.fieldRepo.ReplaceAssignments(ctx, taskType.ID, req.FieldIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to assign fields", err.Error())
	}

	assigned, err := s.fieldRepo.FindAssignedByTaskType(ctx, taskType.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
	}
	return toFieldResponses(assigned), nil
}

// ListAssignedFields lists the fields assigned to a task type
func (s *fieldServiceImpl) ListAssignedFields(ctx context.Context, userID, taskTypeID uuid.UUID) ([]*dto.FieldResponse, error) {
	taskType, appErr := s.loadTaskType(ctx, userID, taskTypeID)
	if appErr != nil {
		return nil, appErr
	}

	assigned, err := s.fieldRepo.FindAssignedByTaskType(ctx, taskType.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
	}
	return toFieldResponses(assigned), nil
}

func (s *fieldServiceImpl) loadField(ctx context.Context, userID, fieldID uuid.UUID) (*domain.Field, *response.AppError) {
	field, err := s.fieldRepo.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Field not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field", err.Error())
	}
	if appErr := requireMembership(ctx, s.projectRepo, field.ProjectID, userID); appErr != nil {
		return nil, appErr
	}
	return field, nil
}

func (s *fieldServiceImpl) loadTaskType(ctx context.Context, userID, taskTypeID uuid.UUID) (*domain.TaskType, *response.AppError) {
	taskType, err := s.taskTypeRepo.FindByID(ctx, taskTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Task type not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task type", err.Error())
	}
	if appErr := requireMembership(ctx, s.projectRepo, taskType.ProjectID, userID); appErr != nil {
		return nil, appErr
	}
	return taskType, nil
}

// encodeOptions encodes the option list for storage and rejects options on
// kinds that have none
func encodeOptions(kind domain.FieldInputKind, options []string) (datatypes.JSON, *response.AppError) {
	if len(options) == 0 {
		return nil, nil
	}
	if kind != domain.FieldInputSelect && kind != domain.FieldInputRadio {
		return nil, response.NewValidationError("Options are only allowed for select and radio fields", "")
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode field options", err.Error())
	}
	return datatypes.JSON(data), nil
}

func toFieldResponse(field *domain.Field) *dto.FieldResponse {
	var options []string
	if len(field.Options) > 0 {
		// Options were validated at write time; a decode failure leaves them empty.
		_ = json.Unmarshal(field.Options, &options)
	}
	return &dto.FieldResponse{
		ID:           field.ID,
		ProjectID:    field.ProjectID,
		Name:         field.Name,
		InputKind:    string(field.InputKind),
		IsRequired:   field.IsRequired,
		DefaultValue: field.DefaultValue,
		Options:      options,
		CreatedAt:    field.CreatedAt,
		UpdatedAt:    field.UpdatedAt,
	}
}

func toFieldResponses(fields []*domain.Field) []*dto.FieldResponse {
	responses := make([]*dto.FieldResponse, 0, len(fields))
	for _, field := range fields {
		responses = append(responses, toFieldResponse(field))
	}
	return responses
}
