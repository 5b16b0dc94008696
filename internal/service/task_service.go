package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-flow-api/internal/cache"
	"task-flow-api/internal/client"
	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/metrics"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/response"
)

// FieldPersistenceError marks a failure in the best-effort second phase of
// a task update. The orchestrator logs and swallows it; the task row commit
// has already succeeded and the overall call still reports success.
type FieldPersistenceError struct {
	TaskID uuid.UUID
	Err    error
}

// Error implements the error interface
func (e *FieldPersistenceError) Error() string {
	return "field value persistence failed for task " + e.TaskID.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *FieldPersistenceError) Unwrap() error {
	return e.Err
}

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, userID, projectID uuid.UUID, filters dto.TaskFilters) ([]*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	taskRepo     repository.TaskRepository
	taskTypeRepo repository.TaskTypeRepository
	workflowRepo repository.WorkflowRepository
	fieldRepo    repository.FieldRepository
	projectRepo  repository.ProjectRepository
	cache        cache.WorkflowCache
	noti         client.NotificationClient
	metrics      *metrics.Metrics
	logger       *zap.Logger
	strictFields bool
}

// NewTaskService creates a new instance of TaskService. When strictFields
// is true, the task row and its field values are committed in a single
// transaction instead of the default best-effort second phase.
func NewTaskService(
	taskRepo repository.TaskRepository,
	taskTypeRepo repository.TaskTypeRepository,
	workflowRepo repository.WorkflowRepository,
	fieldRepo repository.FieldRepository,
	projectRepo repository.ProjectRepository,
	workflowCache cache.WorkflowCache,
	noti client.NotificationClient,
	m *metrics.Metrics,
	logger *zap.Logger,
	strictFields bool,
) TaskService {
	return &taskServiceImpl{
		taskRepo:     taskRepo,
		taskTypeRepo: taskTypeRepo,
		workflowRepo: workflowRepo,
		fieldRepo:    fieldRepo,
		projectRepo:  projectRepo,
		cache:        workflowCache,
		noti:         noti,
		metrics:      m,
		logger:       logger,
		strictFields: strictFields,
	}
}

// CreateTask creates a task in a project the caller is a member of
func (s *taskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, response.NewValidationError(MsgNameRequired, "")
	}

	if appErr := requireMembership(ctx, s.projectRepo, req.ProjectID, userID); appErr != nil {
		return nil, appErr
	}

	values := req.FieldValues
	if req.TaskTypeID != nil {
		assigned, err := s.fieldRepo.FindAssignedByTaskType(ctx, *req.TaskTypeID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
		}
		values = withFieldDefaults(values, assigned)
		if req.FieldValues != nil {
			if appErr := ValidateFieldValues(values, assigned); appErr != nil {
				s.metrics.IncrementFieldValidationFailure()
				return nil, appErr
			}
		}
		if req.StateID != nil {
			if appErr := s.checkInitialState(ctx, *req.TaskTypeID, *req.StateID); appErr != nil {
				return nil, appErr
			}
		}
	}

	if req.AssigneeID != nil {
		if appErr := s.checkAssignee(ctx, req.ProjectID, *req.AssigneeID); appErr != nil {
			return nil, appErr
		}
	}

	status := req.Status
	if status == "" {
		status = "OPEN"
	}

	task := &domain.Task{
		ProjectID:   req.ProjectID,
		TaskTypeID:  req.TaskTypeID,
		StateID:     req.StateID,
		OwnerID:     userID,
		AssigneeID:  req.AssigneeID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		FieldValues: buildFieldValueRows(uuid.Nil, values),
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	s.metrics.IncrementTaskCreated()
	s.noti.NotifyTaskEvent(client.TaskEvent{
		Action:    client.ActionTaskCreated,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   userID,
	})

	return s.toTaskResponse(ctx, task)
}

// GetTask fetches one task. Absence and lack of access are both reported
// as not found.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	task, appErr := s.loadOwnedTask(ctx, userID, taskID)
	if appErr != nil {
		return nil, appErr
	}
	return s.toTaskResponse(ctx, task)
}

// ListTasks lists the tasks of a project visible to the caller
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID, projectID uuid.UUID, filters dto.TaskFilters) ([]*dto.TaskResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID, filters)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list tasks", err.Error())
	}

	assignedByType := make(map[uuid.UUID]map[uuid.UUID]struct{})
	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		var assignedIDs map[uuid.UUID]struct{}
		if task.TaskTypeID != nil {
			cached, ok := assignedByType[*task.TaskTypeID]
			if !ok {
				cached, err = s.assignedFieldIDs(ctx, *task.TaskTypeID)
				if err != nil {
					return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
				}
				assignedByType[*task.TaskTypeID] = cached
			}
			assignedIDs = cached
		}
		responses = append(responses, mapTaskResponse(task, assignedIDs))
	}
	return responses, nil
}

// UpdateTask validates and applies a task patch. Validation runs fully
// against freshly loaded data before anything is written: field values
// against the effective type's assignments, the state change against the
// workflow's transition set, the assignee against project membership.
// Only after every check passes is the task row committed; the field value
// upsert then runs as a best-effort second phase unless strict persistence
// is configured.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, appErr := s.loadOwnedTask(ctx, userID, taskID)
	if appErr != nil {
		return nil, appErr
	}

	finalTypeID := task.TaskTypeID
	if req.TaskTypeID != nil {
		finalTypeID = req.TaskTypeID
	}

	if finalTypeID != nil && req.FieldValues != nil {
		assigned, err := s.fieldRepo.FindAssignedByTaskType(ctx, *finalTypeID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
		}
		if appErr := ValidateFieldValues(req.FieldValues, assigned); appErr != nil {
			s.metrics.IncrementFieldValidationFailure()
			return nil, appErr
		}
	}

	stateChanged := req.StateID != nil && (task.StateID == nil || *task.StateID != *req.StateID)
	if stateChanged && finalTypeID != nil {
		if appErr := s.checkTransition(ctx, task.StateID, *req.StateID, *finalTypeID); appErr != nil {
			return nil, appErr
		}
	}

	if req.AssigneeID != nil {
		if appErr := s.checkAssignee(ctx, task.ProjectID, *req.AssigneeID); appErr != nil {
			return nil, appErr
		}
	}

	task.Name = req.Name
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.TaskTypeID != nil {
		task.TaskTypeID = req.TaskTypeID
	}
	if req.StateID != nil {
		task.StateID = req.StateID
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	values := buildFieldValueRows(task.ID, req.FieldValues)

	if s.strictFields {
		if err := s.taskRepo.UpdateWithFieldValues(ctx, task, values); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
		}
	} else {
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
		}
		if len(values) > 0 {
			if err := s.taskRepo.UpsertFieldValues(ctx, values); err != nil {
				perr := &FieldPersistenceError{TaskID: task.ID, Err: err}
				s.logger.Error("Tolerating field value persistence failure after task commit",
					zap.String("taskId", task.ID.String()),
					zap.Error(perr))
			}
		}
	}

	s.noti.NotifyTaskEvent(client.TaskEvent{
		Action:    client.ActionTaskUpdated,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   userID,
	})

	updated, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}
	return s.toTaskResponse(ctx, updated)
}

// DeleteTask soft deletes a task owned by the caller
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, appErr := s.loadOwnedTask(ctx, userID, taskID)
	if appErr != nil {
		return appErr
	}
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}
	s.noti.NotifyTaskEvent(client.TaskEvent{
		Action:    client.ActionTaskDeleted,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   userID,
	})
	return nil
}

// loadOwnedTask fetches a task and hides it from non-owners. Absence and
// foreign ownership are indistinguishable to the caller.
func (s *taskServiceImpl) loadOwnedTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, *response.AppError) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task", err.Error())
	}
	if task.OwnerID != userID {
		return nil, response.NewNotFoundError("Task not found", "")
	}
	return task, nil
}

// checkTransition validates a state change against the workflow bound to
// the effective task type. Types without a workflow accept any state.
func (s *taskServiceImpl) checkTransition(ctx context.Context, fromStateID *uuid.UUID, toStateID, taskTypeID uuid.UUID) *response.AppError {
	taskType, err := s.taskTypeRepo.FindByID(ctx, taskTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Task type not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load task type", err.Error())
	}
	if taskType.WorkflowID == nil {
		return nil
	}

	transitions, err := s.loadTransitions(ctx, *taskType.WorkflowID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load workflow transitions", err.Error())
	}

	decision := ValidateTransition(fromStateID, toStateID, transitions)
	if decision.Allowed {
		s.metrics.IncrementTransitionAllowed()
		return nil
	}

	s.metrics.IncrementTransitionRejected()
	if decision.NoTransitions {
		return response.NewTransitionError(MsgNoTransitions, nil)
	}
	return response.NewTransitionError(MsgInvalidTransition, decision.Reachable)
}

// checkInitialState requires the first state of a new task to be a step of
// the type's workflow. Types without a workflow accept any state.
func (s *taskServiceImpl) checkInitialState(ctx context.Context, taskTypeID, stateID uuid.UUID) *response.AppError {
	taskType, err := s.taskTypeRepo.FindByID(ctx, taskTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Task type not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load task type", err.Error())
	}
	if taskType.WorkflowID == nil {
		return nil
	}
	steps, err := s.workflowRepo.FindStepsByWorkflowID(ctx, *taskType.WorkflowID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load workflow steps", err.Error())
	}
	for _, step := range steps {
		if step.StateID == stateID {
			return nil
		}
	}
	return response.NewValidationError("Initial state must be a step of the workflow", "")
}

// checkAssignee requires the assignee to be a member of the task's project
func (s *taskServiceImpl) checkAssignee(ctx context.Context, projectID, assigneeID uuid.UUID) *response.AppError {
	isMember, err := s.projectRepo.IsProjectMember(ctx, projectID, assigneeID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}
	if !isMember {
		return response.NewValidationError(MsgAssigneeNotMember, "")
	}
	return nil
}

// loadTransitions reads the workflow's transition set through the cache
func (s *taskServiceImpl) loadTransitions(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, error) {
	if cached, ok := s.cache.GetTransitions(ctx, workflowID); ok {
		return cached, nil
	}
	transitions, err := s.workflowRepo.FindTransitionsByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	s.cache.SetTransitions(ctx, workflowID, transitions)
	return transitions, nil
}

func (s *taskServiceImpl) assignedFieldIDs(ctx context.Context, taskTypeID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	assigned, err := s.fieldRepo.FindAssignedByTaskType(ctx, taskTypeID)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]struct{}, len(assigned))
	for _, field := range assigned {
		ids[field.ID] = struct{}{}
	}
	return ids, nil
}

func (s *taskServiceImpl) toTaskResponse(ctx context.Context, task *domain.Task) (*dto.TaskResponse, error) {
	var assignedIDs map[uuid.UUID]struct{}
	if task.TaskTypeID != nil {
		ids, err := s.assignedFieldIDs(ctx, *task.TaskTypeID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load field assignments", err.Error())
		}
		assignedIDs = ids
	}
	return mapTaskResponse(task, assignedIDs), nil
}

// mapTaskResponse maps a task to its response shape. Stored values for
// fields no longer assigned to the task's type are hidden, not deleted.
func mapTaskResponse(task *domain.Task, assignedIDs map[uuid.UUID]struct{}) *dto.TaskResponse {
	fieldValues := make([]dto.TaskFieldValueResponse, 0, len(task.FieldValues))
	for _, value := range task.FieldValues {
		if assignedIDs != nil {
			if _, ok := assignedIDs[value.FieldID]; !ok {
				continue
			}
		} else {
			continue
		}
		fieldValues = append(fieldValues, dto.TaskFieldValueResponse{
			FieldID:   value.FieldID,
			FieldName: value.Field.Name,
			Value:     value.Value,
		})
	}
	return &dto.TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		TaskTypeID:  task.TaskTypeID,
		StateID:     task.StateID,
		OwnerID:     task.OwnerID,
		AssigneeID:  task.AssigneeID,
		Name:        task.Name,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		FieldValues: fieldValues,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// buildFieldValueRows converts submitted values to rows. Blank values are
// stored as null. taskID may be zero when the rows ride on a task create.
// withFieldDefaults fills in default values for assigned fields the request
// left out entirely. An explicit blank suppresses the default.
func withFieldDefaults(inputs []dto.FieldValueInput, assigned []*domain.Field) []dto.FieldValueInput {
	supplied := make(map[uuid.UUID]struct{}, len(inputs))
	for _, input := range inputs {
		supplied[input.FieldID] = struct{}{}
	}
	result := inputs
	for _, field := range assigned {
		if field.DefaultValue == "" {
			continue
		}
		if _, ok := supplied[field.ID]; ok {
			continue
		}
		result = append(result, dto.FieldValueInput{FieldID: field.ID, Value: field.DefaultValue})
	}
	return result
}

func buildFieldValueRows(taskID uuid.UUID, inputs []dto.FieldValueInput) []domain.TaskFieldValue {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]domain.TaskFieldValue, 0, len(inputs))
	for _, input := range inputs {
		var value *string
		if strings.TrimSpace(input.Value) != "" {
			v := input.Value
			value = &v
		}
		row := domain.TaskFieldValue{FieldID: input.FieldID, Value: value}
		if taskID != uuid.Nil {
			row.TaskID = taskID
		}
		rows = append(rows, row)
	}
	return rows
}
