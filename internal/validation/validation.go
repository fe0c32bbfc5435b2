// Package validation checks user submissions before they reach the local
// store. Validation failures surface to the UI immediately; they never
// enter the sync layer.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// MaxNotesLength caps free-text notes, counted in runes.
const MaxNotesLength = 2000

// MaxRating is the highest consultation rating the feedback form accepts.
const MaxRating = 5

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateSymptomSubmission validates a symptom form submission.
func ValidateSymptomSubmission(report types.SymptomReport) []ValidationError {
	var c Collector

	if report.PatientID == "" {
		c.Add(&ValidationError{Field: "patientId", Message: "must not be empty"})
	}
	if len(report.Symptoms) == 0 {
		c.Add(&ValidationError{Field: "symptoms", Message: "select at least one symptom"})
	}
	for _, code := range report.Symptoms {
		if !knownSymptom(code) {
			c.Add(&ValidationError{Field: "symptoms", Message: fmt.Sprintf("unknown symptom code %q", code)})
		}
	}
	c.Add(validateText("notes", report.Notes, MaxNotesLength))

	return c.Errors()
}

// ValidateFeedback validates a consultation feedback submission.
func ValidateFeedback(feedback types.Feedback) []ValidationError {
	var c Collector

	if feedback.PatientID == "" {
		c.Add(&ValidationError{Field: "patientId", Message: "must not be empty"})
	}
	if feedback.Rating < 1 || feedback.Rating > MaxRating {
		c.Add(&ValidationError{Field: "rating", Message: fmt.Sprintf("must be between 1 and %d", MaxRating)})
	}
	c.Add(validateText("comment", feedback.Comment, MaxNotesLength))

	return c.Errors()
}

func validateText(field, value string, max int) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{Field: field, Message: "must be valid UTF-8"}
	}
	if strings.Contains(value, "\x00") {
		return &ValidationError{Field: field, Message: "must not contain null bytes"}
	}
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", max)}
	}
	return nil
}

func knownSymptom(code types.SymptomCode) bool {
	for _, known := range types.KnownSymptomCodes {
		if code == known {
			return true
		}
	}
	return false
}
