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

// StateService defines the interface for state business logic
type StateService interface {
	CreateState(ctx context.Context, userID uuid.UUID, req *dto.CreateStateRequest) (*dto.StateResponse, error)
	ListStates(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.StateResponse, error)
	UpdateState(ctx context.Context, userID, stateID uuid.UUID, req *dto.UpdateStateRequest) (*dto.StateResponse, error)
	ReorderStates(ctx context.Context, userID, projectID uuid.UUID, req *dto.ReorderStatesRequest) ([]*dto.StateResponse, error)
	DeleteState(ctx context.Context, userID, stateID uuid.UUID) error
}

type stateServiceImpl struct {
	stateRepo   repository.StateRepository
	projectRepo repository.ProjectRepository
}

// NewStateService creates a new instance of StateService
func NewStateService(stateRepo repository.StateRepository, projectRepo repository.ProjectRepository) StateService {
	return &stateServiceImpl{stateRepo: stateRepo, projectRepo: projectRepo}
}

// CreateState creates a state in a project the caller is a member of
func (s *stateServiceImpl) CreateState(ctx context.Context, userID uuid.UUID, req *dto.CreateStateRequest) (*dto.StateResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, req.ProjectID, userID); appErr != nil {
		return nil, appErr
	}

	state := &domain.State{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Position:  req.Position,
	}
	if err := s.stateRepo.Create(ctx, state); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create state", err.Error())
	}
	return toStateResponse(state), nil
}

// ListStates lists the states of a project ordered by position
func (s *stateServiceImpl) ListStates(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.StateResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	states, err := s.stateRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list states", err.Error())
	}
	responses := make([]*dto.StateResponse, 0, len(states))
	for _, state := range states {
		responses = append(responses, toStateResponse(state))
	}
	return responses, nil
}

// UpdateState renames or repositions a state
func (s *stateServiceImpl) UpdateState(ctx context.Context, userID, stateID uuid.UUID, req *dto.UpdateStateRequest) (*dto.StateResponse, error) {
	state, appErr := s.loadState(ctx, userID, stateID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		state.Name = *req.Name
	}
	if req.Position != nil {
		state.Position = *req.Position
	}
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update state", err.Error())
	}
	return toStateResponse(state), nil
}

// ReorderStates rewrites the display order of the project's states
func (s *stateServiceImpl) ReorderStates(ctx context.Context, userID, projectID uuid.UUID, req *dto.ReorderStatesRequest) ([]*dto.StateResponse, error) {
	if appErr := requireMembership(ctx, s.projectRepo, projectID, userID); appErr != nil {
		return nil, appErr
	}

	if err := s.stateRepo.UpdatePositions(ctx, projectID, req.StateIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reorder states", err.Error())
	}
	return s.ListStates(ctx, userID, projectID)
}

// DeleteState deletes a state unless a workflow step or a task still
// references it
func (s *stateServiceImpl) DeleteState(ctx context.Context, userID, stateID uuid.UUID) error {
	state, appErr := s.loadState(ctx, userID, stateID)
	if appErr != nil {
		return appErr
	}

	stepRefs, err := s.stateRepo.CountWorkflowStepRefs(ctx, state.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check state references", err.Error())
	}
	if stepRefs > 0 {
		return response.NewValidationError("State is used by a workflow and cannot be deleted", "")
	}

	taskRefs, err := s.stateRepo.CountTaskRefs(ctx, state.ID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check state references", err.Error())
	}
	if taskRefs > 0 {
		return response.NewValidationError("State is used by tasks and cannot be deleted", "")
	}

	if err := s.stateRepo.Delete(ctx, state.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete state", err.Error())
	}
	return nil
}

func (s *stateServiceImpl) loadState(ctx context.Context, userID, stateID uuid.UUID) (*domain.State, *response.AppError) {
	state, err := s.stateRepo.FindByID(ctx, stateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("State not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load state", err.Error())
	}
	if appErr := requireMembership(ctx, s.projectRepo, state.ProjectID, userID); appErr != nil {
		return nil, appErr
	}
	return state, nil
}

func toStateResponse(state *domain.State) *dto.StateResponse {
	return &dto.StateResponse{
		ID:        state.ID,
		ProjectID: state.ProjectID,
		Name:      state.Name,
		Position:  state.Position,
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
}

// requireMembership hides a project from non-members. Absence and lack of
// access yield the same not-found error.
func requireMembership(ctx context.Context, projectRepo repository.ProjectRepository, projectID, userID uuid.UUID) *response.AppError {
	isMember, err := projectRepo.IsProjectMember(ctx, projectID, userID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}
	if !isMember {
		return response.NewNotFoundError("Project not found", "")
	}
	return nil
}
