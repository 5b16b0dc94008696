package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
	"task-flow-api/internal/service"
)

// StateHandler handles state endpoints
type StateHandler struct {
	stateService service.StateService
}

// NewStateHandler creates a new instance of StateHandler
func NewStateHandler(stateService service.StateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

// CreateState godoc
// @Summary Create state
// @Tags states
// @Accept json
// @Produce json
// @Param request body dto.CreateStateRequest true "State to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /states [post]
func (h *StateHandler) CreateState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	state, err := h.stateService.CreateState(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, state)
}

// ListStates godoc
// @Summary List states
// @Tags states
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/states [get]
func (h *StateHandler) ListStates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "projectId")
	if !ok {
		return
	}

	states, err := h.stateService.ListStates(c.Request.Context(), userID, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, states)
}

// UpdateState godoc
// @Summary Update state
// @Tags states
// @Accept json
// @Produce json
// @Param stateId path string true "State ID"
// @Param request body dto.UpdateStateRequest true "State patch"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /states/{stateId} [put]
func (h *StateHandler) UpdateState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stateID, ok := parseUUIDParam(c, "stateId")
	if !ok {
		return
	}

	var req dto.UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	state, err := h.stateService.UpdateState(c.Request.Context(), userID, stateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, state)
}

// ReorderStates godoc
// @Summary Reorder states
// @Description Rewrites the display order of all states of a project
// @Tags states
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param request body dto.ReorderStatesRequest true "States in new order"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/states/reorder [put]
func (h *StateHandler) ReorderStates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "projectId")
	if !ok {
		return
	}

	var req dto.ReorderStatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	states, err := h.stateService.ReorderStates(c.Request.Context(), userID, projectID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, states)
}

// DeleteState godoc
// @Summary Delete state
// @Description Deletes a state unless a workflow or task still references it
// @Tags states
// @Produce json
// @Param stateId path string true "State ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /states/{stateId} [delete]
func (h *StateHandler) DeleteState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stateID, ok := parseUUIDParam(c, "stateId")
	if !ok {
		return
	}

	if err := h.stateService.DeleteState(c.Request.Context(), userID, stateID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
