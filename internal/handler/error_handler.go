package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-flow-api/internal/response"
)

// handleServiceError maps a service layer error onto the HTTP response.
// Transition rejections carry their reachable-state diagnostic through to
// the body.
func handleServiceError(c *gin.Context, err error) {
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
		return
	}

	status := statusForCode(appErr.Code)
	if len(appErr.Reachable) > 0 {
		response.SendErrorWithReachable(c, status, appErr.Message, appErr.Reachable)
		return
	}
	response.SendError(c, status, appErr.Code, appErr.Message)
}

func statusForCode(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
