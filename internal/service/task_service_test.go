package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
)

type taskServiceMocks struct {
	taskRepo     *MockTaskRepository
	taskTypeRepo *MockTaskTypeRepository
	workflowRepo *MockWorkflowRepository
	fieldRepo    *MockFieldRepository
	projectRepo  *MockProjectRepository
	cache        *MockWorkflowCache
	noti         *MockNotificationClient
}

func newTaskServiceWithMocks(strict bool) (TaskService, *taskServiceMocks) {
	mocks := &taskServiceMocks{
		taskRepo:     &MockTaskRepository{},
		taskTypeRepo: &MockTaskTypeRepository{},
		workflowRepo: &MockWorkflowRepository{},
		fieldRepo:    &MockFieldRepository{},
		projectRepo:  &MockProjectRepository{},
		cache:        &MockWorkflowCache{},
		noti:         &MockNotificationClient{},
	}
	svc := NewTaskService(
		mocks.taskRepo, mocks.taskTypeRepo, mocks.workflowRepo,
		mocks.fieldRepo, mocks.projectRepo, mocks.cache, mocks.noti,
		newTestMetrics(), zap.NewNop(), strict)
	return svc, mocks
}

func ownedTask(ownerID uuid.UUID) *domain.Task {
	return &domain.Task{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		ProjectID: uuid.New(),
		OwnerID:   ownerID,
		Name:      "Fix login",
		Status:    "OPEN",
	}
}

func appErrFrom(t *testing.T, err error) *response.AppError {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr
}

func TestUpdateTask_NotFound(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := svc.UpdateTask(context.Background(), uuid.New(), uuid.New(), &dto.UpdateTaskRequest{Name: "x"})
	appErr := appErrFrom(t, err)
	if appErr.Code != response.ErrCodeNotFound {
		t.Errorf("expected not-found code, got %s", appErr.Code)
	}
}

func TestUpdateTask_ForeignOwnerHiddenAsNotFound(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	task := ownedTask(uuid.New())
	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	_, err := svc.UpdateTask(context.Background(), uuid.New(), task.ID, &dto.UpdateTaskRequest{Name: "x"})
	appErr := appErrFrom(t, err)
	if appErr.Code != response.ErrCodeNotFound {
		t.Errorf("expected ownership failure to surface as not found, got %s", appErr.Code)
	}
}

func TestUpdateTask_AssigneeMustBeMember(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	outsider := uuid.New()
	updateCalled := false

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskRepo.UpdateFunc = func(ctx context.Context, task *domain.Task) error {
		updateCalled = true
		return nil
	}
	mocks.projectRepo.IsProjectMemberFunc = func(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
		return false, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:       "Fix login",
		AssigneeID: &outsider,
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != MsgAssigneeNotMember {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
	if updateCalled {
		t.Errorf("expected no commit after assignee rejection")
	}
}

func TestUpdateTask_FieldValidationUsesEffectiveType(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	bugType := uuid.New()
	choreType := uuid.New()
	task.TaskTypeID = &bugType
	severityID := uuid.New()

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.fieldRepo.FindAssignedByTaskTypeFunc = func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
		if taskTypeID == choreType {
			return nil, nil
		}
		t.Errorf("expected validation against the new effective type, queried %s", taskTypeID)
		return nil, nil
	}

	// Severity is valid for the old type but the patch switches to Chore
	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:        "Fix login",
		TaskTypeID:  &choreType,
		FieldValues: []dto.FieldValueInput{{FieldID: severityID, Value: "High"}},
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != MsgUnassignedField {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestUpdateTask_RequiredFieldNamedInError(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	bugType := uuid.New()
	task.TaskTypeID = &bugType

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.fieldRepo.FindAssignedByTaskTypeFunc = func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
		return []*domain.Field{requiredField("Severity")}, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:        "Fix login",
		FieldValues: []dto.FieldValueInput{},
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != "Required field 'Severity' must have a value" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestUpdateTask_SameStateSkipsTransitionCheck(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	stateID := uuid.New()
	task.TaskTypeID = &typeID
	task.StateID = &stateID

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		t.Errorf("expected no transition check for an unchanged state")
		return nil, gorm.ErrRecordNotFound
	}

	sameState := stateID
	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:    "Fix login",
		StateID: &sameState,
	})
	if err != nil {
		t.Errorf("expected no-op state assignment to succeed, got %v", err)
	}
}

func TestUpdateTask_TransitionRejectedWithReachable(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	workflowID := uuid.New()
	todo := uuid.New()
	inProgress := uuid.New()
	done := uuid.New()
	task.TaskTypeID = &typeID
	task.StateID = &todo
	updateCalled := false

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskRepo.UpdateFunc = func(ctx context.Context, task *domain.Task) error {
		updateCalled = true
		return nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		return &domain.TaskType{BaseModel: domain.BaseModel{ID: typeID}, WorkflowID: &workflowID}, nil
	}
	mocks.workflowRepo.FindTransitionsByWorkflowIDFunc = func(ctx context.Context, id uuid.UUID) ([]domain.Transition, error) {
		return []domain.Transition{
			{ID: uuid.New(), FromStateID: &todo, ToStateID: inProgress},
			{ID: uuid.New(), FromStateID: &inProgress, ToStateID: done},
		}, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:    "Fix login",
		StateID: &done,
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != MsgInvalidTransition {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
	if len(appErr.Reachable) != 1 || appErr.Reachable[0] != inProgress {
		t.Errorf("expected reachable diagnostic [In Progress], got %v", appErr.Reachable)
	}
	if updateCalled {
		t.Errorf("expected no commit after transition rejection")
	}
}

func TestUpdateTask_NoTransitionsConfigured(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	workflowID := uuid.New()
	todo := uuid.New()
	done := uuid.New()
	task.TaskTypeID = &typeID
	task.StateID = &todo

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		return &domain.TaskType{BaseModel: domain.BaseModel{ID: typeID}, WorkflowID: &workflowID}, nil
	}
	mocks.workflowRepo.FindTransitionsByWorkflowIDFunc = func(ctx context.Context, id uuid.UUID) ([]domain.Transition, error) {
		return nil, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:    "Fix login",
		StateID: &done,
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != MsgNoTransitions {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestUpdateTask_TypeWithoutWorkflowAcceptsAnyState(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	todo := uuid.New()
	anywhere := uuid.New()
	task.TaskTypeID = &typeID
	task.StateID = &todo

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		return &domain.TaskType{BaseModel: domain.BaseModel{ID: typeID}}, nil
	}
	mocks.workflowRepo.FindTransitionsByWorkflowIDFunc = func(ctx context.Context, id uuid.UUID) ([]domain.Transition, error) {
		t.Errorf("expected no transition lookup for a type without a workflow")
		return nil, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:    "Fix login",
		StateID: &anywhere,
	})
	if err != nil {
		t.Errorf("expected state change to be accepted, got %v", err)
	}
}

func TestUpdateTask_FieldPersistenceFailureTolerated(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	fieldID := uuid.New()
	task.TaskTypeID = &typeID

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.fieldRepo.FindAssignedByTaskTypeFunc = func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
		notes := optionalField("Notes", domain.FieldInputText)
		notes.ID = fieldID
		return []*domain.Field{notes}, nil
	}
	mocks.taskRepo.UpsertFieldValuesFunc = func(ctx context.Context, values []domain.TaskFieldValue) error {
		return errors.New("unique constraint violated")
	}

	result, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:        "Fix login",
		FieldValues: []dto.FieldValueInput{{FieldID: fieldID, Value: "left a repro"}},
	})
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}
	if result == nil {
		t.Errorf("expected the updated task to be returned")
	}
}

func TestUpdateTask_StrictModeCommitsAtomically(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(true)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	fieldID := uuid.New()
	task.TaskTypeID = &typeID

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.fieldRepo.FindAssignedByTaskTypeFunc = func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
		notes := optionalField("Notes", domain.FieldInputText)
		notes.ID = fieldID
		return []*domain.Field{notes}, nil
	}
	mocks.taskRepo.UpdateWithFieldValuesFunc = func(ctx context.Context, task *domain.Task, values []domain.TaskFieldValue) error {
		return errors.New("transaction aborted")
	}
	mocks.taskRepo.UpdateFunc = func(ctx context.Context, task *domain.Task) error {
		t.Errorf("expected strict mode to use the transactional path")
		return nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:        "Fix login",
		FieldValues: []dto.FieldValueInput{{FieldID: fieldID, Value: "left a repro"}},
	})
	appErr := appErrFrom(t, err)
	if appErr.Code != response.ErrCodeInternal {
		t.Errorf("expected strict mode failure to propagate, got %s", appErr.Code)
	}
}

func TestUpdateTask_TransitionsReadThroughCache(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)
	typeID := uuid.New()
	workflowID := uuid.New()
	todo := uuid.New()
	inProgress := uuid.New()
	task.TaskTypeID = &typeID
	task.StateID = &todo

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		return &domain.TaskType{BaseModel: domain.BaseModel{ID: typeID}, WorkflowID: &workflowID}, nil
	}
	mocks.cache.GetTransitionsFunc = func(ctx context.Context, id uuid.UUID) ([]domain.Transition, bool) {
		return []domain.Transition{{ID: uuid.New(), FromStateID: &todo, ToStateID: inProgress}}, true
	}
	mocks.workflowRepo.FindTransitionsByWorkflowIDFunc = func(ctx context.Context, id uuid.UUID) ([]domain.Transition, error) {
		t.Errorf("expected a cache hit to skip the database read")
		return nil, nil
	}

	_, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Name:    "Fix login",
		StateID: &inProgress,
	})
	if err != nil {
		t.Errorf("expected cached transition to be allowed, got %v", err)
	}
}

func TestCreateTask_AppliesFieldDefaults(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	typeID := uuid.New()
	severityID := uuid.New()
	var created *domain.Task

	mocks.projectRepo.IsProjectMemberFunc = func(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
		return true, nil
	}
	mocks.fieldRepo.FindAssignedByTaskTypeFunc = func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
		severity := requiredField("Severity")
		severity.ID = severityID
		severity.DefaultValue = "Medium"
		return []*domain.Field{severity}, nil
	}
	mocks.taskRepo.CreateFunc = func(ctx context.Context, task *domain.Task) error {
		task.ID = uuid.New()
		created = task
		return nil
	}
	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return created, nil
	}

	_, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{
		ProjectID:  uuid.New(),
		Name:       "Fix login",
		TaskTypeID: &typeID,
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if len(created.FieldValues) != 1 || created.FieldValues[0].FieldID != severityID {
		t.Fatalf("expected the default value row, got %v", created.FieldValues)
	}
	if created.FieldValues[0].Value == nil || *created.FieldValues[0].Value != "Medium" {
		t.Errorf("expected default Medium, got %v", created.FieldValues[0].Value)
	}
}

func TestCreateTask_InitialStateMustBeWorkflowStep(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	typeID := uuid.New()
	workflowID := uuid.New()
	todo := uuid.New()
	elsewhere := uuid.New()

	mocks.projectRepo.IsProjectMemberFunc = func(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
		return true, nil
	}
	mocks.taskTypeRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
		return &domain.TaskType{BaseModel: domain.BaseModel{ID: typeID}, WorkflowID: &workflowID}, nil
	}
	mocks.workflowRepo.FindStepsByWorkflowIDFunc = func(ctx context.Context, id uuid.UUID) ([]domain.WorkflowStep, error) {
		return []domain.WorkflowStep{{ID: uuid.New(), WorkflowID: workflowID, StateID: todo}}, nil
	}

	_, err := svc.CreateTask(context.Background(), uuid.New(), &dto.CreateTaskRequest{
		ProjectID:  uuid.New(),
		Name:       "Fix login",
		TaskTypeID: &typeID,
		StateID:    &elsewhere,
	})
	appErr := appErrFrom(t, err)
	if appErr.Message != "Initial state must be a step of the workflow" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestDeleteTask_NotifiesAfterDelete(t *testing.T) {
	svc, mocks := newTaskServiceWithMocks(false)
	owner := uuid.New()
	task := ownedTask(owner)

	mocks.taskRepo.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	if err := svc.DeleteTask(context.Background(), owner, task.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if len(mocks.noti.Events) != 1 || mocks.noti.Events[0].Action != "task.deleted" {
		t.Errorf("expected one task.deleted event, got %v", mocks.noti.Events)
	}
}
