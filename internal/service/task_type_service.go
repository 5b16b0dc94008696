package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/response"
)

// TaskTypeService defines the interface for task type business logic
type TaskTypeService interface {
	CreateTaskType(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskTypeRequest) (*dto.TaskTypeResponse, error)
	ListTaskTypes(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.TaskTypeResponse, error)
	UpdateTaskType(ctx context.Context, userID, taskTypeID uuid.UUID, req *dto.UpdateTaskTypeRequest) (*dto.TaskTypeResponse, error)
	DeleteTaskType(ctx context.Context, userID, taskTypeID uuid.UUID) error
}

type taskTypeServiceImpl struct {
	taskTypeRepo repository.TaskTypeRepository
	workflowRepo repository.WorkflowRepository
	projectRepo  repository.ProjectRepository
}

// NewTaskTypeService creates a new instance of TaskTypeService
func NewTaskTypeService(
	taskTypeRepo repository.TaskTypeRepository,
	workflowRepo repository.WorkflowRepository,
	projectRepo repository.ProjectRepository,
) TaskTypeService {
	return &taskTypeServiceImpl{
		taskTypeRepo: taskTypeRepo,
		workflowRepo: workflowRepo,
		projectRepo:  projectRepo,
	}
}

// CreateTaskType creates a task type, optionally bound to a workflow of
// the same project
func (s *taskTypeServiceImpl) CreateTaskType(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskTypeRequest) (*dto.TaskTypeResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, req.ProjectID, userID); appErr != nil {
		return nil, appErr
	}
	if req.WorkflowID != nil {
		if appErr := s.checkWorkflow(ctx, req.ProjectID, *req.WorkflowID); appErr != nil {
			return nil, appErr
		}
	}

	taskType := &domain.TaskType{
		ProjectID:  req.ProjectID,
		Name:       req.Name,
		WorkflowID: req.WorkflowID,
	}
	if err := s.taskTypeRepo.Create(ctx, taskType); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task type", err.Error())
	}
	return toTaskTypeResponse(taskType), nil
}

// ListTaskTypes lists the task types of a project
func (s *taskTypeServiceImpl) ListTaskTypes(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.TaskTypeResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	taskTypes, err := s.taskTypeRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list task types", err.Error())
	}
	responses := make([]*dto.TaskTypeResponse, 0, len(taskTypes))
	for _, taskType := range taskTypes {
		responses = append(responses, toTaskTypeResponse(taskType))
	}
	return responses, nil
}

// UpdateTaskType renames a task type or rebinds its workflow. Rebinding
// does not touch the state of existing tasks; a now incompatible state is
// caught at the task's next state change.
func (s *taskTypeServiceImpl) UpdateTaskType(ctx context.Context, userID, taskTypeID uuid.UUID, req *dto.UpdateTaskTypeRequest) (*dto.TaskTypeResponse, error) {
	taskType, appErr := s.loadTaskType(ctx, userID, taskTypeID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		taskType.Name = *req.Name
	}
	if req.WorkflowID != nil {
		if appErr := s.checkWorkflow(ctx, taskType.ProjectID, *req.WorkflowID); appErr != nil {
			return nil, appErr
		}
		taskType.WorkflowID = req.WorkflowID
	}
	if err := s.taskTypeRepo.Update(ctx, taskType); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task type", err.Error())
	}
	return toTaskTypeResponse(taskType), nil
}

// DeleteTaskType deletes a task type unless tasks still reference it
func (s *taskTypeServiceImpl) DeleteTaskType(ctx context.Context, userID, taskTypeID uuid.UUID) error {
	taskType, appErr := s.loadTaskType(ctx, userID, taskTypeID)
	if appErr != nil {
		return appErr
	}

	refs, err := s.taskTypeRepo.CountTaskRefs(ctx, taskType.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check task type references", err.Error())
	}
	if refs > 0 {
		return response.NewValidationError("Task type is used by tasks and cannot be deleted", "")
	}

	if err := s.taskTypeRepo.Delete(ctx, taskType.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task type", err.Error())
	}
	return nil
}

func (s *taskTypeServiceImpl) loadTaskType(ctx context.Context, userID, taskTypeID uuid.UUID) (*domain.TaskType, *response.AppError) {
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

// checkWorkflow requires the workflow to exist within the same project
func (s *taskTypeServiceImpl) checkWorkflow(ctx context.Context, projectID, workflowID uuid.UUID) *response.AppError {
	workflow, err := s.workflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Workflow not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load workflow", err.Error())
	}
	if workflow.ProjectID != projectID {
		return response.NewValidationError("Workflow must belong to the same project", "")
	}
	return nil
}

func toTaskTypeResponse(taskType *domain.TaskType) *dto.TaskTypeResponse {
	return &dto.TaskTypeResponse{
		ID:         taskType.ID,
		ProjectID:  taskType.ProjectID,
		Name:       taskType.Name,
		WorkflowID: taskType.WorkflowID,
		CreatedAt:  taskType.CreatedAt,
		UpdatedAt:  taskType.UpdatedAt,
	}
}
