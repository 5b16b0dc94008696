package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
	"task-flow-api/internal/response"
)

// Validation messages surfaced verbatim to API callers
const (
	MsgUnassignedField    = "All fields must be assigned to the task type"
	MsgNoTransitions      = "No state transitions are configured for this workflow"
	MsgInvalidTransition  = "Invalid state transition according to workflow rules"
	MsgAssigneeNotMember  = "Assignee must be a member of the project"
	MsgNameRequired       = "Name is required"
	msgRequiredFieldEmpty = "Required field '%s' must have a value"
)

// dateLayouts accepted for date field values
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// kindValidators holds the value check for input kinds that constrain the
// value's shape. Kinds absent from the map accept any non-blank string.
var kindValidators = map[domain.FieldInputKind]func(field *domain.Field, value string) error{
	domain.FieldInputNumber: validateNumberValue,
	domain.FieldInputDate:   validateDateValue,
	domain.FieldInputSelect: validateChoiceValue,
	domain.FieldInputRadio:  validateChoiceValue,
}

// ValidateFieldValues checks a proposed set of field values against the
// fields assigned to the task's effective type. It runs the assignment
// integrity check first, then required-field completeness, then the
// kind-specific shape checks, and performs no writes. Only fields named in
// the request are inspected; stored values for fields no longer assigned
// are a storage concern, not a validation concern.
func ValidateFieldValues(proposed []dto.FieldValueInput, assigned []*domain.Field) *response.AppError {
	assignedByID := make(map[string]*domain.Field, len(assigned))
	for _, field := range assigned {
		assignedByID[field.ID.String()] = field
	}

	for _, value := range proposed {
		if _, ok := assignedByID[value.FieldID.String()]; !ok {
			return response.NewValidationError(MsgUnassignedField, "")
		}
	}

	valuesByField := make(map[string]string, len(proposed))
	for _, value := range proposed {
		valuesByField[value.FieldID.String()] = value.Value
	}

	for _, field := range assigned {
		if !field.IsRequired {
			continue
		}
		value, ok := valuesByField[field.ID.String()]
		if !ok || strings.TrimSpace(value) == "" {
			return response.NewValidationError(fmt.Sprintf(msgRequiredFieldEmpty, field.Name), "")
		}
	}

	for _, value := range proposed {
		field := assignedByID[value.FieldID.String()]
		trimmed := strings.TrimSpace(value.Value)
		if trimmed == "" {
			continue
		}
		validate, ok := kindValidators[field.InputKind]
		if !ok {
			continue
		}
		if err := validate(field, trimmed); err != nil {
			return response.NewValidationError(
				fmt.Sprintf("Field '%s' has an invalid value", field.Name), err.Error())
		}
	}

	return nil
}

func validateNumberValue(_ *domain.Field, value string) error {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Errorf("value %q is not a number", value)
	}
	return nil
}

func validateDateValue(_ *domain.Field, value string) error {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("value %q is not a date", value)
}

func validateChoiceValue(field *domain.Field, value string) error {
	if len(field.Options) == 0 {
		return nil
	}
	var options []string
	// Options were validated at write time; a decode failure leaves them empty.
	if err := json.Unmarshal(field.Options, &options); err != nil {
		return nil
	}
	for _, option := range options {
		if option == value {
			return nil
		}
	}
	return fmt.Errorf("value %q is not one of the field's options", value)
}
