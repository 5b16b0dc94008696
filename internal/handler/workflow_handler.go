package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
	"task-flow-api/internal/service"
)

// WorkflowHandler handles workflow endpoints
type WorkflowHandler struct {
	workflowService service.WorkflowService
}

// NewWorkflowHandler creates a new instance of WorkflowHandler
func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// CreateWorkflow godoc
// @Summary Create workflow
// @Description Creates a workflow with its steps and transitions. A transition with no fromStateId is a wildcard reachable from any step.
// @Tags workflows
// @Accept json
// @Produce json
// @Param request body dto.CreateWorkflowRequest true "Workflow to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /workflows [post]
func (h *WorkflowHandler) CreateWorkflow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	workflow, err := h.workflowService.CreateWorkflow(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, workflow)
}

// GetWorkflow godoc
// @Summary Get workflow
// @Tags workflows
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /workflows/{workflowId} [get]
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workflowID, ok := parseUUIDParam(c, "workflowId")
	if !ok {
		return
	}

	workflow, err := h.workflowService.GetWorkflow(c.Request.Context(), userID, workflowID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workflow)
}

// ListWorkflows godoc
// @Summary List workflows
// @Tags workflows
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/workflows [get]
func (h *WorkflowHandler) ListWorkflows(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "projectId")
	if !ok {
		return
	}

	workflows, err := h.workflowService.ListWorkflows(c.Request.Context(), userID, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workflows)
}

// UpdateWorkflow godoc
// @Summary Update workflow
// @Description Updates workflow attributes and replaces the step and transition sets when given
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Param request body dto.UpdateWorkflowRequest true "Workflow patch"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /workflows/{workflowId} [put]
func (h *WorkflowHandler) UpdateWorkflow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workflowID, ok := parseUUIDParam(c, "workflowId")
	if !ok {
		return
	}

	var req dto.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	workflow, err := h.workflowService.UpdateWorkflow(c.Request.Context(), userID, workflowID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, workflow)
}

// DeleteWorkflow godoc
// @Summary Delete workflow
// @Tags workflows
// @Produce json
// @Param workflowId path string true "Workflow ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /workflows/{workflowId} [delete]
func (h *WorkflowHandler) DeleteWorkflow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	workflowID, ok := parseUUIDParam(c, "workflowId")
	if !ok {
		return
	}

	if err := h.workflowService.DeleteWorkflow(c.Request.Context(), userID, workflowID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
