package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"task-flow-api/internal/client"
	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/metrics"
)

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc                    func(ctx context.Context, task *domain.Task) error
	FindByIDFunc                  func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectIDFunc           func(ctx context.Context, projectID uuid.UUID, filters dto.TaskFilters) ([]*domain.Task, error)
	UpdateFunc                    func(ctx context.Context, task *domain.Task) error
	UpdateWithFieldValuesFunc     func(ctx context.Context, task *domain.Task, values []domain.TaskFieldValue) error
	UpsertFieldValuesFunc         func(ctx context.Context, values []domain.TaskFieldValue) error
	DeleteFunc                    func(ctx context.Context, id uuid.UUID) error
	DeleteOrphanedFieldValuesFunc func(ctx context.Context) (int64, error)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID, filters dto.TaskFilters) ([]*domain.Task, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID, filters)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) UpdateWithFieldValues(ctx context.Context, task *domain.Task, values []domain.TaskFieldValue) error {
	if m.UpdateWithFieldValuesFunc != nil {
		return m.UpdateWithFieldValuesFunc(ctx, task, values)
	}
	return nil
}

func (m *MockTaskRepository) UpsertFieldValues(ctx context.Context, values []domain.TaskFieldValue) error {
	if m.UpsertFieldValuesFunc != nil {
		return m.UpsertFieldValuesFunc(ctx, values)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) DeleteOrphanedFieldValues(ctx context.Context) (int64, error) {
	if m.DeleteOrphanedFieldValuesFunc != nil {
		return m.DeleteOrphanedFieldValuesFunc(ctx)
	}
	return 0, nil
}

// MockTaskTypeRepository is a mock implementation of TaskTypeRepository
type MockTaskTypeRepository struct {
	CreateFunc          func(ctx context.Context, taskType *domain.TaskType) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.TaskType, error)
	FindByProjectIDFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskType, error)
	UpdateFunc          func(ctx context.Context, taskType *domain.TaskType) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	CountTaskRefsFunc   func(ctx context.Context, taskTypeID uuid.UUID) (int64, error)
}

func (m *MockTaskTypeRepository) Create(ctx context.Context, taskType *domain.TaskType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, taskType)
	}
	return nil
}

func (m *MockTaskTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskTypeRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskType, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockTaskTypeRepository) Update(ctx context.Context, taskType *domain.TaskType) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, taskType)
	}
	return nil
}

func (m *MockTaskTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskTypeRepository) CountTaskRefs(ctx context.Context, taskTypeID uuid.UUID) (int64, error) {
	if m.CountTaskRefsFunc != nil {
		return m.CountTaskRefsFunc(ctx, taskTypeID)
	}
	return 0, nil
}

// MockWorkflowRepository is a mock implementation of WorkflowRepository
type MockWorkflowRepository struct {
	CreateFunc                      func(ctx context.Context, workflow *domain.Workflow) error
	FindByIDFunc                    func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByProjectIDFunc             func(ctx context.Context, projectID uuid.UUID) ([]*domain.Workflow, error)
	UpdateFunc                      func(ctx context.Context, workflow *domain.Workflow) error
	ReplaceStepsFunc                func(ctx context.Context, workflowID uuid.UUID, steps []domain.WorkflowStep) error
	ReplaceTransitionsFunc          func(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) error
	FindTransitionsByWorkflowIDFunc func(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, error)
	FindStepsByWorkflowIDFunc       func(ctx context.Context, workflowID uuid.UUID) ([]domain.WorkflowStep, error)
	DeleteFunc                      func(ctx context.Context, id uuid.UUID) error
	CountTaskTypeRefsFunc           func(ctx context.Context, workflowID uuid.UUID) (int64, error)
}

func (m *MockWorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, workflow)
	}
	return nil
}

func (m *MockWorkflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Workflow, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, workflow)
	}
	return nil
}

func (m *MockWorkflowRepository) ReplaceSteps(ctx context.Context, workflowID uuid.UUID, steps []domain.WorkflowStep) error {
	if m.ReplaceStepsFunc != nil {
		return m.ReplaceStepsFunc(ctx, workflowID, steps)
	}
	return nil
}

func (m *MockWorkflowRepository) ReplaceTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) error {
	if m.ReplaceTransitionsFunc != nil {
		return m.ReplaceTransitionsFunc(ctx, workflowID, transitions)
	}
	return nil
}

func (m *MockWorkflowRepository) FindTransitionsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, error) {
	if m.FindTransitionsByWorkflowIDFunc != nil {
		return m.FindTransitionsByWorkflowIDFunc(ctx, workflowID)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) FindStepsByWorkflowID(ctx context.Context, workflowID uuid.UUID) ([]domain.WorkflowStep, error) {
	if m.FindStepsByWorkflowIDFunc != nil {
		return m.FindStepsByWorkflowIDFunc(ctx, workflowID)
	}
	return nil, nil
}

func (m *MockWorkflowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockWorkflowRepository) CountTaskTypeRefs(ctx context.Context, workflowID uuid.UUID) (int64, error) {
	if m.CountTaskTypeRefsFunc != nil {
		return m.CountTaskTypeRefsFunc(ctx, workflowID)
	}
	return 0, nil
}

// MockFieldRepository is a mock implementation of FieldRepository
type MockFieldRepository struct {
	CreateFunc                 func(ctx context.Context, field *domain.Field) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Field, error)
	FindByProjectIDFunc        func(ctx context.Context, projectID uuid.UUID) ([]*domain.Field, error)
	UpdateFunc                 func(ctx context.Context, field *domain.Field) error
	DeleteFunc                 func(ctx context.Context, id uuid.UUID) error
	ReplaceAssignmentsFunc     func(ctx context.Context, taskTypeID uuid.UUID, fieldIDs []uuid.UUID) error
	FindAssignedByTaskTypeFunc func(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error)
	CountAssignmentRefsFunc    func(ctx context.Context, fieldID uuid.UUID) (int64, error)
}

func (m *MockFieldRepository) Create(ctx context.Context, field *domain.Field) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, field)
	}
	return nil
}

func (m *MockFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockFieldRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Field, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockFieldRepository) Update(ctx context.Context, field *domain.Field) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, field)
	}
	return nil
}

func (m *MockFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockFieldRepository) ReplaceAssignments(ctx context.Context, taskTypeID uuid.UUID, fieldIDs []uuid.UUID) error {
	if m.ReplaceAssignmentsFunc != nil {
		return m.ReplaceAssignmentsFunc(ctx, taskTypeID, fieldIDs)
	}
	return nil
}

func (m *MockFieldRepository) FindAssignedByTaskType(ctx context.Context, taskTypeID uuid.UUID) ([]*domain.Field, error) {
	if m.FindAssignedByTaskTypeFunc != nil {
		return m.FindAssignedByTaskTypeFunc(ctx, taskTypeID)
	}
	return nil, nil
}

func (m *MockFieldRepository) CountAssignmentRefs(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	if m.CountAssignmentRefsFunc != nil {
		return m.CountAssignmentRefsFunc(ctx, fieldID)
	}
	return 0, nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc                 func(ctx context.Context, project *domain.Project) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByMemberFunc           func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	UpdateFunc                 func(ctx context.Context, project *domain.Project) error
	DeleteFunc                 func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc              func(ctx context.Context, member *domain.ProjectMember) error
	RemoveMemberFunc           func(ctx context.Context, projectID, userID uuid.UUID) error
	FindMembersByProjectIDFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	IsProjectMemberFunc        func(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindByMemberFunc != nil {
		return m.FindByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, projectID, userID)
	}
	return nil
}

func (m *MockProjectRepository) FindMembersByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindMembersByProjectIDFunc != nil {
		return m.FindMembersByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockProjectRepository) IsProjectMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	if m.IsProjectMemberFunc != nil {
		return m.IsProjectMemberFunc(ctx, projectID, userID)
	}
	return false, nil
}

// MockWorkflowCache is a mock implementation of cache.WorkflowCache
type MockWorkflowCache struct {
	GetTransitionsFunc func(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, bool)
	SetTransitionsFunc func(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition)
	InvalidateFunc     func(ctx context.Context, workflowID uuid.UUID)
}

func (m *MockWorkflowCache) GetTransitions(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, bool) {
	if m.GetTransitionsFunc != nil {
		return m.GetTransitionsFunc(ctx, workflowID)
	}
	return nil, false
}

func (m *MockWorkflowCache) SetTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) {
	if m.SetTransitionsFunc != nil {
		m.SetTransitionsFunc(ctx, workflowID, transitions)
	}
}

func (m *MockWorkflowCache) Invalidate(ctx context.Context, workflowID uuid.UUID) {
	if m.InvalidateFunc != nil {
		m.InvalidateFunc(ctx, workflowID)
	}
}

// MockStateRepository is a mock implementation of StateRepository
type MockStateRepository struct {
	CreateFunc                func(ctx context.Context, state *domain.State) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.State, error)
	FindByProjectIDFunc       func(ctx context.Context, projectID uuid.UUID) ([]*domain.State, error)
	UpdateFunc                func(ctx context.Context, state *domain.State) error
	UpdatePositionsFunc       func(ctx context.Context, projectID uuid.UUID, stateIDs []uuid.UUID) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
	CountWorkflowStepRefsFunc func(ctx context.Context, stateID uuid.UUID) (int64, error)
	CountTaskRefsFunc         func(ctx context.Context, stateID uuid.UUID) (int64, error)
}

func (m *MockStateRepository) Create(ctx context.Context, state *domain.State) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, state)
	}
	return nil
}

func (m *MockStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.State, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStateRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.State, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockStateRepository) Update(ctx context.Context, state *domain.State) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, state)
	}
	return nil
}

func (m *MockStateRepository) UpdatePositions(ctx context.Context, projectID uuid.UUID, stateIDs []uuid.UUID) error {
	if m.UpdatePositionsFunc != nil {
		return m.UpdatePositionsFunc(ctx, projectID, stateIDs)
	}
	return nil
}

func (m *MockStateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStateRepository) CountWorkflowStepRefs(ctx context.Context, stateID uuid.UUID) (int64, error) {
	if m.CountWorkflowStepRefsFunc != nil {
		return m.CountWorkflowStepRefsFunc(ctx, stateID)
	}
	return 0, nil
}

func (m *MockStateRepository) CountTaskRefs(ctx context.Context, stateID uuid.UUID) (int64, error) {
	if m.CountTaskRefsFunc != nil {
		return m.CountTaskRefsFunc(ctx, stateID)
	}
	return 0, nil
}

// MockNotificationClient is a mock implementation of client.NotificationClient
type MockNotificationClient struct {
	Events []client.TaskEvent
}

func (m *MockNotificationClient) NotifyTaskEvent(event client.TaskEvent) {
	m.Events = append(m.Events, event)
}

// newTestMetrics builds metrics on an isolated registry
func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}
