package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-flow-api/internal/cache"
	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/repository"
	"task-flow-api/internal/response"
)

// WorkflowService defines the interface for workflow business logic
type WorkflowService interface {
	CreateWorkflow(ctx context.Context, userID uuid.UUID, req *dto.CreateWorkflowRequest) (*dto.WorkflowResponse, error)
	GetWorkflow(ctx context.Context, userID, workflowID uuid.UUID) (*dto.WorkflowResponse, error)
	ListWorkflows(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.WorkflowResponse, error)
	UpdateWorkflow(ctx context.Context, userID, workflowID uuid.UUID, req *dto.UpdateWorkflowRequest) (*dto.WorkflowResponse, error)
	DeleteWorkflow(ctx context.Context, userID, workflowID uuid.UUID) error
}

type workflowServiceImpl struct {
	workflowRepo repository.WorkflowRepository
	stateRepo    repository.StateRepository
	projectRepo  repository.ProjectRepository
	cache        cache.WorkflowCache
}

// NewWorkflowService creates a new instance of WorkflowService
func NewWorkflowService(
	workflowRepo repository.WorkflowRepository,
	stateRepo repository.StateRepository,
	projectRepo repository.ProjectRepository,
	workflowCache cache.WorkflowCache,
) WorkflowService {
	return &workflowServiceImpl{
		workflowRepo: workflowRepo,
		stateRepo:    stateRepo,
		projectRepo:  projectRepo,
		cache:        workflowCache,
	}
}

// CreateWorkflow creates a workflow with its steps and transitions. Every
// transition endpoint must be one of the workflow's steps; a nil origin is
// the wildcard and is always legal.
func (s *workflowServiceImpl) CreateWorkflow(ctx context.Context, userID uuid.UUID, req *dto.CreateWorkflowRequest) (*dto.WorkflowResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, req.ProjectID, userID); appErr != nil {
		return nil, appErr
	}

	if appErr := s.checkStepStates(ctx, req.ProjectID, req.StepStateIDs); appErr != nil {
		return nil, appErr
	}
	if appErr := checkTransitionEndpoints(req.StepStateIDs, req.Transitions); appErr != nil {
		return nil, appErr
	}

	workflow := &domain.Workflow{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Steps:       buildSteps(uuid.Nil, req.StepStateIDs),
		Transitions: buildTransitions(uuid.Nil, req.Transitions),
	}
	if err := s.workflowRepo.Create(ctx, workflow); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create workflow", err.Error())
	}

	return s.reload(ctx, workflow.ID)
}

// GetWorkflow fetches a workflow with its steps and transitions
func (s *workflowServiceImpl) GetWorkflow(ctx context.Context, userID, workflowID uuid.UUID) (*dto.WorkflowResponse, error) {
	workflow, appErr := s.loadWorkflow(ctx, userID, workflowID)
	if appErr != nil {
		return nil, appErr
	}
	return toWorkflowResponse(workflow), nil
}

// ListWorkflows lists the workflows of a project
func (s *workflowServiceImpl) ListWorkflows(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.WorkflowResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	workflows, err := s.workflowRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list workflows", err.Error())
	}
	responses := make([]*dto.WorkflowResponse, 0, len(workflows))
	for _, workflow := range workflows {
		responses = append(responses, toWorkflowResponse(workflow))
	}
	return responses, nil
}

// UpdateWorkflow updates workflow attributes and, when given, replaces the
// step and transition sets. The transition cache entry is invalidated on
// every successful update.
func (s *workflowServiceImpl) UpdateWorkflow(ctx context.Context, userID, workflowID uuid.UUID, req *dto.UpdateWorkflowRequest) (*dto.WorkflowResponse, error) {
	workflow, appErr := s.loadWorkflow(ctx, userID, workflowID)
	if appErr != nil {
		return nil, appErr
	}

	stepIDs := make([]uuid.UUID, 0, len(workflow.Steps))
	for _, step := range workflow.Steps {
		stepIDs = append(stepIDs, step.StateID)
	}
	if req.StepStateIDs != nil {
		stepIDs = *req.StepStateIDs
		if appErr := s.checkStepStates(ctx, workflow.ProjectID, stepIDs); appErr != nil {
			return nil, appErr
		}
	}

	transitions := make([]dto.TransitionInput, 0, len(workflow.Transitions))
	for _, t := range workflow.Transitions {
		transitions = append(transitions, dto.TransitionInput{FromStateID: t.FromStateID, ToStateID: t.ToStateID})
	}
	if req.Transitions != nil {
		transitions = *req.Transitions
	}

	if appErr := checkTransitionEndpoints(stepIDs, transitions); appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		workflow.Name = *req.Name
		if err := s.workflowRepo.Update(ctx, workflow); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update workflow", err.Error())
		}
	}
	if req.StepStateIDs != nil {
		if err := s.workflowRepo.ReplaceSteps(ctx, workflow.ID, buildSteps(workflow.ID, stepIDs)); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to replace workflow steps", err.Error())
		}
	}
	if req.Transitions != nil {
		if err := s.workflowRepo.ReplaceTransitions(ctx, workflow.ID, buildTransitions(workflow.ID, transitions)); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to replace workflow transitions", err.Error())
		}
	}

	s.cache.Invalidate(ctx, workflow.ID)
	return s.reload(ctx, workflow.ID)
}

// DeleteWorkflow deletes a workflow unless a task type still uses it
func (s *workflowServiceImpl) DeleteWorkflow(ctx context.Context, userID, workflowID uuid.UUID) error {
	workflow, appErr := s.loadWorkflow(ctx, userID, workflowID)
	if appErr != nil {
		return appErr
	}

	refs, err := s.workflowRepo.CountTaskTypeRefs(ctx, workflow.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check workflow references", err.Error())
	}
	if refs > 0 {
		return response.NewValidationError("Workflow is used by task types and cannot be deleted", "")
	}

	if err := s.workflowRepo.Delete(ctx, workflow.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete workflow", err.Error())
	}
	s.cache.Invalidate(ctx, workflow.ID)
	return nil
}

func (s *workflowServiceImpl) loadWorkflow(ctx context.Context, userID, workflowID uuid.UUID) (*domain.Workflow, *response.AppError) {
	workflow, err := s.workflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Workflow not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load workflow", err.Error())
	}
	if appErr := requireMembership(ctx, s.projectRepo, workflow.ProjectID, userID); appErr != nil {
		return nil, appErr
	}
	return workflow, nil
}

// checkStepStates requires every step state to exist within the project
func (s *workflowServiceImpl) checkStepStates(ctx context.Context, projectID uuid.UUID, stateIDs []uuid.UUID) *response.AppError {
	states, err := s.stateRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load project states", err.Error())
	}
	known := make(map[uuid.UUID]struct{}, len(states))
	for _, state := range states {
		known[state.ID] = struct{}{}
	}
	for _, stateID := range stateIDs {
		if _, ok := known[stateID]; !ok {
			return response.NewValidationError("Workflow steps must reference states of the project", "")
		}
	}
	return nil
}

// checkTransitionEndpoints requires both endpoints of every transition to
// be steps of the workflow. The wildcard origin is exempt.
func checkTransitionEndpoints(stepStateIDs []uuid.UUID, transitions []dto.TransitionInput) *response.AppError {
	steps := make(map[uuid.UUID]struct{}, len(stepStateIDs))
	for _, stateID := range stepStateIDs {
		steps[stateID] = struct{}{}
	}
	for _, t := range transitions {
		if t.FromStateID != nil {
			if _, ok := steps[*t.FromStateID]; !ok {
				return response.NewValidationError("Transition states must be steps of the workflow", "")
			}
		}
		if _, ok := steps[t.ToStateID]; !ok {
			return response.NewValidationError("Transition states must be steps of the workflow", "")
		}
	}
	return nil
}

func buildSteps(workflowID uuid.UUID, stateIDs []uuid.UUID) []domain.WorkflowStep {
	steps := make([]domain.WorkflowStep, 0, len(stateIDs))
	for i, stateID := range stateIDs {
		step := domain.WorkflowStep{StateID: stateID, StepOrder: i}
		if workflowID != uuid.Nil {
			step.WorkflowID = workflowID
		}
		steps = append(steps, step)
	}
	return steps
}

func buildTransitions(workflowID uuid.UUID, inputs []dto.TransitionInput) []domain.Transition {
	transitions := make([]domain.Transition, 0, len(inputs))
	for _, input := range inputs {
		transition := domain.Transition{FromStateID: input.FromStateID, ToStateID: input.ToStateID}
		if workflowID != uuid.Nil {
			transition.WorkflowID = workflowID
		}
		transitions = append(transitions, transition)
	}
	return transitions
}

func (s *workflowServiceImpl) reload(ctx context.Context, workflowID uuid.UUID) (*dto.WorkflowResponse, error) {
	workflow, err := s.workflowRepo.FindByID(ctx, workflowID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload workflow", err.Error())
	}
	return toWorkflowResponse(workflow), nil
}

func toWorkflowResponse(workflow *domain.Workflow) *dto.WorkflowResponse {
	steps := make([]dto.WorkflowStepResponse, 0, len(workflow.Steps))
	for _, step := range workflow.Steps {
		steps = append(steps, dto.WorkflowStepResponse{
			StateID:   step.StateID,
			StateName: step.State.Name,
			StepOrder: step.StepOrder,
		})
	}
	transitions := make([]dto.TransitionResponse, 0, len(workflow.Transitions))
	for _, t := range workflow.Transitions {
		transitions = append(transitions, dto.TransitionResponse{
			ID:          t.ID,
			FromStateID: t.FromStateID,
			ToStateID:   t.ToStateID,
		})
	}
	return &dto.WorkflowResponse{
		ID:          workflow.ID,
		ProjectID:   workflow.ProjectID,
		Name:        workflow.Name,
		Steps:       steps,
		Transitions: transitions,
		CreatedAt:   workflow.CreatedAt,
		UpdatedAt:   workflow.UpdatedAt,
	}
}
