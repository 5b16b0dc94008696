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

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, userID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, userID, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error
	AddMember(ctx context.Context, userID, projectID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, userID, projectID, memberUserID uuid.UUID) error
	ListMembers(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.MemberResponse, error)
}

type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectServiceImpl{projectRepo: projectRepo}
}

// CreateProject creates a project and enrolls the creator as its owner
func (s *projectServiceImpl) CreateProject(ctx context.Context, userID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &domain.Project{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	member := &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		RoleName:  domain.ProjectRoleOwner,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to enroll project owner", err.Error())
	}

	return toProjectResponse(project), nil
}

// GetProject fetches a project visible to the caller
func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, appErr := s.loadMemberProject(ctx, userID, projectID)
	if appErr != nil {
		return nil, appErr
	}
	return toProjectResponse(project), nil
}

// ListProjects lists the projects the caller is a member of
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindByMember(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list projects", err.Error())
	}
	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, toProjectResponse(project))
	}
	return responses, nil
}

// UpdateProject updates project attributes. Only admins may update.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, userID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, appErr := s.loadMemberProject(ctx, userID, projectID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := s.requireAdmin(ctx, projectID, userID); appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}
	return toProjectResponse(project), nil
}

// DeleteProject soft deletes a project. Only the owner may delete.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	project, appErr := s.loadMemberProject(ctx, userID, projectID)
	if appErr != nil {
		return appErr
	}
	if project.OwnerID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the project owner can delete the project", "")
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete project", err.Error())
	}
	return nil
}

// AddMember adds a user to the project. Only admins may manage members.
func (s *projectServiceImpl) AddMember(ctx context.Context, userID, projectID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if _, appErr := s.loadMemberProject(ctx, userID, projectID); appErr != nil {
		return nil, appErr
	}
	if appErr := s.requireAdmin(ctx, projectID, userID); appErr != nil {
		return nil, appErr
	}

	alreadyMember, err := s.projectRepo.IsProjectMember(ctx, projectID, req.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}
	if alreadyMember {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a project member", "")
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		RoleName:  domain.ProjectRole(req.RoleName),
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add project member", err.Error())
	}
	return toMemberResponse(member), nil
}

// RemoveMember removes a user from the project. The owner cannot be removed.
func (s *projectServiceImpl) RemoveMember(ctx context.Context, userID, projectID, memberUserID uuid.UUID) error {
	project, appErr := s.loadMemberProject(ctx, userID, projectID)
	if appErr != nil {
		return appErr
	}
	if appErr := s.requireAdmin(ctx, projectID, userID); appErr != nil {
		return appErr
	}
	if memberUserID == project.OwnerID {
		return response.NewValidationError("The project owner cannot be removed", "")
	}
	if err := s.projectRepo.RemoveMember(ctx, projectID, memberUserID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove project member", err.Error())
	}
	return nil
}

// ListMembers lists the members of a project visible to the caller
func (s *projectServiceImpl) ListMembers(ctx context.Context, userID, projectID uuid.UUID) ([]*dto.MemberResponse, error) {
	if _, appErr := s.loadMemberProject(ctx, userID, projectID); appErr != nil {
		return nil, appErr
	}
	members, err := s.projectRepo.FindMembersByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list project members", err.Error())
	}
	responses := make([]*dto.MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, toMemberResponse(member))
	}
	return responses, nil
}

// loadMemberProject fetches a project and hides it from non-members
func (s *projectServiceImpl) loadMemberProject(ctx context.Context, userID, projectID uuid.UUID) (*domain.Project, *response.AppError) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load project", err.Error())
	}
	isMember, err := s.projectRepo.IsProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}
	if !isMember {
		return nil, response.NewNotFoundError("Project not found", "")
	}
	return project, nil
}

// requireAdmin requires the caller to hold the OWNER or ADMIN role
func (s *projectServiceImpl) requireAdmin(ctx context.Context, projectID, userID uuid.UUID) *response.AppError {
	members, err := s.projectRepo.FindMembersByProjectID(ctx, projectID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to load project members", err.Error())
	}
	for _, member := range members {
		if member.UserID != userID {
			continue
		}
		if member.RoleName == domain.ProjectRoleOwner || member.RoleName == domain.ProjectRoleAdmin {
			return nil
		}
		break
	}
	return response.NewAppError(response.ErrCodeForbidden, "Insufficient project role", "")
}

func toProjectResponse(project *domain.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func toMemberResponse(member *domain.ProjectMember) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		RoleName:  string(member.RoleName),
		JoinedAt:  member.JoinedAt,
	}
}
