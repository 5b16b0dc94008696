package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
	"task-flow-api/internal/service"
)

// FieldHandler handles custom field and field assignment endpoints
type FieldHandler struct {
	fieldService service.FieldService
}

// NewFieldHandler creates a new instance of FieldHandler
func NewFieldHandler(fieldService service.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

// CreateField godoc
// @Summary Create field
// @Description Creates a custom field. Options apply only to select and radio kinds.
// @Tags fields
// @Accept json
// @Produce json
// @Param request body dto.CreateFieldRequest true "Field to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /fields [post]
func (h *FieldHandler) CreateField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.CreateField(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, field)
}

// ListFields godoc
// @Summary List fields
// @Tags fields
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/fields [get]
func (h *FieldHandler) ListFields(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "projectId")
	if !ok {
		return
	}

	fields, err := h.fieldService.ListFields(c.Request.Context(), userID, projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, fields)
}

// UpdateField godoc
// @Summary Update field
// @Tags fields
// @Accept json
// @Produce json
// @Param fieldId path string true "Field ID"
// @Param request body dto.UpdateFieldRequest true "Field patch"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /fields/{fieldId} [put]
func (h *FieldHandler) UpdateField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := parseUUIDParam(c, "fieldId")
	if !ok {
		return
	}

	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.UpdateField(c.Request.Context(), userID, fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, field)
}

// DeleteField godoc
// @Summary Delete field
// @Tags fields
// @Produce json
// @Param fieldId path string true "Field ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /fields/{fieldId} [delete]
func (h *FieldHandler) DeleteField(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fieldID, ok := parseUUIDParam(c, "fieldId")
	if !ok {
		return
	}

	if err := h.fieldService.DeleteField(c.Request.Context(), userID, fieldID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// AssignFields godoc
// @Summary Assign fields to task type
// @Description Replaces the full field set of a task type with the given list
// @Tags fields
// @Accept json
// @Produce json
// @Param taskTypeId path string true "Task type ID"
// @Param request body dto.AssignFieldsRequest true "Fields to assign"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /task-types/{taskTypeId}/fields [put]
func (h *FieldHandler) AssignFields(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskTypeID, ok := parseUUIDParam(c, "taskTypeId")
	if !ok {
		return
	}

	var req dto.AssignFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	fields, err := h.fieldService.AssignFields(c.Request.Context(), userID, taskTypeID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, fields)
}

// ListAssignedFields godoc
// @Summary List assigned fields
// @Tags fields
// @Produce json
// @Param taskTypeId path string true "Task type ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /task-types/{taskTypeId}/fields [get]
func (h *FieldHandler) ListAssignedFields(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskTypeID, ok := parseUUIDParam(c, "taskTypeId")
	if !ok {
		return
	}

	fields, err := h.fieldService.ListAssignedFields(c.Request.Context(), userID, taskTypeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, fields)
}
