package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Error codes used across the service layer
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type returned by the service layer. Reachable is
// populated only for workflow transition rejections and carries the states
// legally reachable from the task's current state.
type AppError struct {
	Code      string
	Message   string
	Details   string
	Reachable []uuid.UUID
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// NewAppError creates a new AppError with the given code
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a new validation AppError
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a new not-found AppError
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewTransitionError creates a validation AppError carrying the
// reachable-state diagnostic
func NewTransitionError(message string, reachable []uuid.UUID) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Reachable: reachable}
}

// SuccessResponse is the success envelope
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the error envelope. ReachableStates is present only on
// transition rejections.
type ErrorResponse struct {
	Error           string      `json:"error"`
	ReachableStates []uuid.UUID `json:"reachable_states,omitempty"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

// SendError writes an error envelope
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// SendErrorWithReachable writes an error envelope enriched with the
// reachable-state list
func SendErrorWithReachable(c *gin.Context, status int, message string, reachable []uuid.UUID) {
	c.JSON(status, ErrorResponse{Error: message, ReachableStates: reachable})
}
