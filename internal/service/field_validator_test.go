package service

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"task-flow-api/internal/domain"
	"task-flow-api/internal/dto"
)

func requiredField(name string) *domain.Field {
	return &domain.Field{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		Name:       name,
		InputKind:  domain.FieldInputText,
		IsRequired: true,
	}
}

func optionalField(name string, kind domain.FieldInputKind) *domain.Field {
	return &domain.Field{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      name,
		InputKind: kind,
	}
}

func TestValidateFieldValues_RequiredFieldMissing(t *testing.T) {
	severity := requiredField("Severity")

	tests := []struct {
		name     string
		proposed []dto.FieldValueInput
	}{
		{"empty submission", []dto.FieldValueInput{}},
		{"empty string value", []dto.FieldValueInput{{FieldID: severity.ID, Value: ""}}},
		{"whitespace only value", []dto.FieldValueInput{{FieldID: severity.ID, Value: "   "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ValidateFieldValues(tt.proposed, []*domain.Field{severity})
			if appErr == nil {
				t.Fatalf("expected rejection")
			}
			if appErr.Message != "Required field 'Severity' must have a value" {
				t.Errorf("unexpected message: %q", appErr.Message)
			}
		})
	}
}

func TestValidateFieldValues_RequiredFieldSupplied(t *testing.T) {
	severity := requiredField("Severity")
	proposed := []dto.FieldValueInput{{FieldID: severity.ID, Value: "High"}}

	if appErr := ValidateFieldValues(proposed, []*domain.Field{severity}); appErr != nil {
		t.Errorf("expected acceptance, got %q", appErr.Message)
	}
}

func TestValidateFieldValues_UnassignedFieldRejected(t *testing.T) {
	// The field exists but is not assigned to the effective type
	foreign := uuid.New()
	proposed := []dto.FieldValueInput{{FieldID: foreign, Value: "High"}}

	appErr := ValidateFieldValues(proposed, []*domain.Field{})
	if appErr == nil {
		t.Fatalf("expected rejection")
	}
	if appErr.Message != MsgUnassignedField {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestValidateFieldValues_AssignmentCheckedBeforeRequired(t *testing.T) {
	severity := requiredField("Severity")
	foreign := uuid.New()
	proposed := []dto.FieldValueInput{{FieldID: foreign, Value: "x"}}

	appErr := ValidateFieldValues(proposed, []*domain.Field{severity})
	if appErr == nil {
		t.Fatalf("expected rejection")
	}
	if appErr.Message != MsgUnassignedField {
		t.Errorf("expected the unassigned-field rejection first, got %q", appErr.Message)
	}
}

func TestValidateFieldValues_OptionalFieldsMayBeOmitted(t *testing.T) {
	notes := optionalField("Notes", domain.FieldInputTextarea)

	if appErr := ValidateFieldValues(nil, []*domain.Field{notes}); appErr != nil {
		t.Errorf("expected acceptance, got %q", appErr.Message)
	}
}

func TestValidateFieldValues_NumberKind(t *testing.T) {
	estimate := optionalField("Estimate", domain.FieldInputNumber)

	ok := []dto.FieldValueInput{{FieldID: estimate.ID, Value: "3.5"}}
	if appErr := ValidateFieldValues(ok, []*domain.Field{estimate}); appErr != nil {
		t.Errorf("expected numeric value to pass, got %q", appErr.Message)
	}

	bad := []dto.FieldValueInput{{FieldID: estimate.ID, Value: "soon"}}
	if appErr := ValidateFieldValues(bad, []*domain.Field{estimate}); appErr == nil {
		t.Errorf("expected non-numeric value to be rejected")
	}

	// Blank optional values skip the kind check
	blank := []dto.FieldValueInput{{FieldID: estimate.ID, Value: ""}}
	if appErr := ValidateFieldValues(blank, []*domain.Field{estimate}); appErr != nil {
		t.Errorf("expected blank optional value to pass, got %q", appErr.Message)
	}
}

func TestValidateFieldValues_ChoiceKinds(t *testing.T) {
	for _, kind := range []domain.FieldInputKind{domain.FieldInputSelect, domain.FieldInputRadio} {
		t.Run(string(kind), func(t *testing.T) {
			priority := optionalField("Priority", kind)
			priority.Options = datatypes.JSON(`["Low","Medium","High"]`)

			ok := []dto.FieldValueInput{{FieldID: priority.ID, Value: "Medium"}}
			if appErr := ValidateFieldValues(ok, []*domain.Field{priority}); appErr != nil {
				t.Errorf("expected listed option to pass, got %q", appErr.Message)
			}

			bad := []dto.FieldValueInput{{FieldID: priority.ID, Value: "Urgent"}}
			appErr := ValidateFieldValues(bad, []*domain.Field{priority})
			if appErr == nil {
				t.Fatalf("expected unlisted option to be rejected")
			}
			if appErr.Message != "Field 'Priority' has an invalid value" {
				t.Errorf("unexpected message: %q", appErr.Message)
			}
		})
	}
}

func TestValidateFieldValues_ChoiceKindWithoutOptionsAcceptsAnyValue(t *testing.T) {
	status := optionalField("Status", domain.FieldInputSelect)

	proposed := []dto.FieldValueInput{{FieldID: status.ID, Value: "anything"}}
	if appErr := ValidateFieldValues(proposed, []*domain.Field{status}); appErr != nil {
		t.Errorf("expected acceptance, got %q", appErr.Message)
	}
}

func TestValidateFieldValues_DateKind(t *testing.T) {
	due := optionalField("Review date", domain.FieldInputDate)

	ok := []dto.FieldValueInput{{FieldID: due.ID, Value: "2024-06-01"}}
	if appErr := ValidateFieldValues(ok, []*domain.Field{due}); appErr != nil {
		t.Errorf("expected date value to pass, got %q", appErr.Message)
	}

	bad := []dto.FieldValueInput{{FieldID: due.ID, Value: "next week"}}
	if appErr := ValidateFieldValues(bad, []*domain.Field{due}); appErr == nil {
		t.Errorf("expected malformed date to be rejected")
	}
}
