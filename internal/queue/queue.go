// Package queue defines the typed payloads carried by sync queue entries.
// Each entry is tagged with a Kind and its payload decodes to a concrete
// type at dispatch time; there are no untyped blobs past the storage layer.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// Kind discriminates the payload type of a sync queue entry.
type Kind string

const (
	KindSymptom  Kind = "symptom"
	KindFeedback Kind = "feedback"
)

// ErrUnknownKind is returned when an entry carries a kind this build does
// not understand. The entry stays queued; it is never silently dropped.
type ErrUnknownKind struct {
	Kind Kind
}

func (e *ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown sync queue kind %q", e.Kind)
}

// EncodeSymptom encodes a symptom report payload for queueing.
func EncodeSymptom(report types.SymptomReport) (json.RawMessage, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode symptom payload: %w", err)
	}
	return data, nil
}

// EncodeFeedback encodes a feedback payload for queueing.
func EncodeFeedback(feedback types.Feedback) (json.RawMessage, error) {
	data, err := json.Marshal(feedback)
	if err != nil {
		return nil, fmt.Errorf("encode feedback payload: %w", err)
	}
	return data, nil
}

// DecodeSymptom decodes a KindSymptom payload.
func DecodeSymptom(payload json.RawMessage) (types.SymptomReport, error) {
	var report types.SymptomReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return types.SymptomReport{}, fmt.Errorf("decode symptom payload: %w", err)
	}
	return report, nil
}

// DecodeFeedback decodes a KindFeedback payload.
func DecodeFeedback(payload json.RawMessage) (types.Feedback, error) {
	var feedback types.Feedback
	if err := json.Unmarshal(payload, &feedback); err != nil {
		return types.Feedback{}, fmt.Errorf("decode feedback payload: %w", err)
	}
	return feedback, nil
}
