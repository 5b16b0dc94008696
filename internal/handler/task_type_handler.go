package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
	"task-flow-api/internal/service"
)

// TaskTypeHandler handles task type endpoints
type TaskTypeHandler struct {
	taskTypeService service.TaskTypeService
}

// NewTaskTypeHandler creates a new instance of TaskTypeHandler
func NewTaskTypeHandler(taskTypeService service.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{taskTypeService: taskTypeService}
}

// CreateTaskType godoc
// @Summary Create task type
// @Tags task-types
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskTypeRequest true "Task type to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /task-types [post]
func (h *TaskTypeHandler) CreateTaskType(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	taskType, err := h.taskTypeService.CreateTaskType(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, taskType)
}

// ListTaskTypes godoc
// @Summary List task types
// @Tags task-types
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/task-types [get]
func (h *TaskTypeHandler) ListTaskTypes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "projectId")
	if !ok {
		return
	}

	taskTypes, err := h.taskTypeService.ListTaskTypes(c.Request.Context(), userID, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, taskTypes)
}

// UpdateTaskType godoc
// @Summary Update task type
// @Tags task-types
// @Accept json
// @Produce json
// @Param taskTypeId path string true "Task type ID"
// @Param request body dto.UpdateTaskTypeRequest true "Task type patch"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /task-types/{taskTypeId} [put]
func (h *TaskTypeHandler) UpdateTaskType(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskTypeID, ok := parseUUIDParam(c, "taskTypeId")
	if !ok {
		return
	}

	var req dto.UpdateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	taskType, err := h.taskTypeService.UpdateTaskType(c.Request.Context(), userID, taskTypeID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, taskType)
}

// DeleteTaskType godoc
// @Summary Delete task type
// @Tags task-types
// @Produce json
// @Param taskTypeId path string true "Task type ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /task-types/{taskTypeId} [delete]
func (h *TaskTypeHandler) DeleteTaskType(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskTypeID, ok := parseUUIDParam(c, "taskTypeId")
	if !ok {
		return
	}

	if err := h.taskTypeService.DeleteTaskType(c.Request.Context(), userID, taskTypeID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
