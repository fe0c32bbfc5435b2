package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/queue"
	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// QueueEntry is one pending outbound operation in the sync queue.
// Insertion order defines drain order; an entry is removed only after
// the remote service acknowledges it.
type QueueEntry struct {
	ID        string
	Kind      queue.Kind
	Payload   json.RawMessage
	CreatedAt time.Time
	Attempts  int
}

// Store defines the interface contract for all local persistence operations.
type Store interface {
	SaveSymptomReport(ctx context.Context, report types.SymptomReport) error
	ListSymptomReports(ctx context.Context) ([]types.SymptomReport, error)
	ListUnsyncedSymptomReports(ctx context.Context) ([]types.SymptomReport, error)
	MarkSymptomReportSynced(ctx context.Context, id string) error
	CountUnsyncedSymptomReports(ctx context.Context) (int, error)

	ReplaceRecords(ctx context.Context, patientID string, records []types.HealthRecord) error
	ListRecords(ctx context.Context, patientID string) ([]types.HealthRecord, error)
	ReplaceMedicines(ctx context.Context, medicines []types.Medicine) error
	ListMedicines(ctx context.Context) ([]types.Medicine, error)
	SaveConsultation(ctx context.Context, patientID string, c *types.Consultation) error
	GetConsultation(ctx context.Context, patientID string) (*types.Consultation, error)
	SavePatient(ctx context.Context, p types.Patient) error
	GetPatient(ctx context.Context) (*types.Patient, error)

	Enqueue(ctx context.Context, kind queue.Kind, payload json.RawMessage) (QueueEntry, error)
	ListQueue(ctx context.Context) ([]QueueEntry, error)
	Dequeue(ctx context.Context, id string) error
	IncrementQueueAttempts(ctx context.Context, id string) error

	Close() error
}
