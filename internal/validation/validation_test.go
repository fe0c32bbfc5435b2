package validation

import (
	"strings"
	"testing"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

func TestValidateSymptomSubmission(t *testing.T) {
	valid := types.SymptomReport{
		PatientID: "PT-1001",
		Symptoms:  []types.SymptomCode{types.SymptomFever, types.SymptomCough},
		Notes:     "fever since Tuesday",
	}

	tests := []struct {
		name       string
		mutate     func(*types.SymptomReport)
		wantFields []string
	}{
		{
			name:   "valid submission",
			mutate: func(r *types.SymptomReport) {},
		},
		{
			name:       "missing patient id",
			mutate:     func(r *types.SymptomReport) { r.PatientID = "" },
			wantFields: []string{"patientId"},
		},
		{
			name:       "no symptoms selected",
			mutate:     func(r *types.SymptomReport) { r.Symptoms = nil },
			wantFields: []string{"symptoms"},
		},
		{
			name: "unknown symptom code",
			mutate: func(r *types.SymptomReport) {
				r.Symptoms = []types.SymptomCode{types.SymptomFever, "chills"}
			},
			wantFields: []string{"symptoms"},
		},
		{
			name:   "notes at the limit",
			mutate: func(r *types.SymptomReport) { r.Notes = strings.Repeat("a", MaxNotesLength) },
		},
		{
			name:       "notes over the limit",
			mutate:     func(r *types.SymptomReport) { r.Notes = strings.Repeat("a", MaxNotesLength+1) },
			wantFields: []string{"notes"},
		},
		{
			name:   "multibyte notes counted in runes",
			mutate: func(r *types.SymptomReport) { r.Notes = strings.Repeat("ਪ", MaxNotesLength) },
		},
		{
			name:       "notes with null byte",
			mutate:     func(r *types.SymptomReport) { r.Notes = "abc\x00def" },
			wantFields: []string{"notes"},
		},
		{
			name:       "notes with invalid UTF-8",
			mutate:     func(r *types.SymptomReport) { r.Notes = string([]byte{0xff, 0xfe}) },
			wantFields: []string{"notes"},
		},
		{
			name: "multiple failures all reported",
			mutate: func(r *types.SymptomReport) {
				r.PatientID = ""
				r.Symptoms = nil
			},
			wantFields: []string{"patientId", "symptoms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := valid
			tt.mutate(&report)
			errs := ValidateSymptomSubmission(report)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidateFeedback(t *testing.T) {
	tests := []struct {
		name       string
		feedback   types.Feedback
		wantFields []string
	}{
		{
			name:     "valid feedback",
			feedback: types.Feedback{PatientID: "PT-1001", Rating: 5, Comment: "helpful"},
		},
		{
			name:     "comment optional",
			feedback: types.Feedback{PatientID: "PT-1001", Rating: 3},
		},
		{
			name:       "missing patient id",
			feedback:   types.Feedback{Rating: 4},
			wantFields: []string{"patientId"},
		},
		{
			name:       "rating zero",
			feedback:   types.Feedback{PatientID: "PT-1001", Rating: 0},
			wantFields: []string{"rating"},
		},
		{
			name:       "rating above max",
			feedback:   types.Feedback{PatientID: "PT-1001", Rating: MaxRating + 1},
			wantFields: []string{"rating"},
		},
		{
			name:       "negative rating",
			feedback:   types.Feedback{PatientID: "PT-1001", Rating: -1},
			wantFields: []string{"rating"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateFeedback(tt.feedback)
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	if got := err.Error(); got != "rating: must be between 1 and 5" {
		t.Errorf("Error() = %q", got)
	}
}

func assertFields(t *testing.T, errs []ValidationError, want []string) {
	t.Helper()
	if len(errs) != len(want) {
		t.Fatalf("got %d errors (%+v), want %d", len(errs), errs, len(want))
	}
	for i, field := range want {
		if errs[i].Field != field {
			t.Errorf("errors[%d].Field = %q, want %q", i, errs[i].Field, field)
		}
	}
}
