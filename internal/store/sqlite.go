// Package store provides the device-local persistence layer backed by SQLite.
// It holds unsynced outbound items (symptom reports, queue entries) and cached
// inbound items (records, medicines, consultation, patient profile).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rithika5656/Telemedicine-nabha/internal/queue"
	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// SQLiteStore is the SQLite-backed local store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows one writer; a single pooled connection also keeps
	// :memory: databases from splitting across connections
	db.SetMaxOpenConns(1)

	// Enable pragmas for performance and safety
	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	// Run goose migrations
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// storageErr reports a local persistence failure. errors.Is(err, ErrStorage)
// holds for everything returned through here.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}

// SaveSymptomReport upserts a symptom report by id. New reports start
// unsynced; re-saving an existing id preserves nothing but what is passed in.
func (s *SQLiteStore) SaveSymptomReport(ctx context.Context, report types.SymptomReport) error {
	symptomsJSON, err := json.Marshal(report.Symptoms)
	if err != nil {
		return storageErr("marshal symptoms", err)
	}

	synced := 0
	if report.SyncState == types.SyncStateSynced {
		synced = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO symptoms (id, patient_id, symptoms_json, notes, photo_path, voice_path, created_at, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.PatientID, string(symptomsJSON), report.Notes,
		nullable(report.PhotoPath), nullable(report.VoicePath),
		report.CreatedAt.UTC().Format(time.RFC3339Nano), synced)
	if err != nil {
		return storageErr("save symptom report", err)
	}

	return nil
}

// ListSymptomReports returns every locally stored report in creation order.
func (s *SQLiteStore) ListSymptomReports(ctx context.Context) ([]types.SymptomReport, error) {
	return s.querySymptoms(ctx, `
		SELECT id, patient_id, symptoms_json, notes, photo_path, voice_path, created_at, synced
		FROM symptoms ORDER BY id ASC
	`)
}

// ListUnsyncedSymptomReports returns reports still awaiting delivery, in
// creation order. Re-querying is safe and idempotent.
func (s *SQLiteStore) ListUnsyncedSymptomReports(ctx context.Context) ([]types.SymptomReport, error) {
	return s.querySymptoms(ctx, `
		SELECT id, patient_id, symptoms_json, notes, photo_path, voice_path, created_at, synced
		FROM symptoms WHERE synced = 0 ORDER BY id ASC
	`)
}

func (s *SQLiteStore) querySymptoms(ctx context.Context, query string) ([]types.SymptomReport, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query symptom reports", err)
	}
	defer rows.Close()

	var reports []types.SymptomReport
	for rows.Next() {
		var (
			r            types.SymptomReport
			symptomsJSON string
			photo, voice sql.NullString
			createdAt    string
			synced       int
		)
		if err := rows.Scan(&r.ID, &r.PatientID, &symptomsJSON, &r.Notes, &photo, &voice, &createdAt, &synced); err != nil {
			return nil, storageErr("scan symptom report", err)
		}
		if err := json.Unmarshal([]byte(symptomsJSON), &r.Symptoms); err != nil {
			return nil, storageErr("unmarshal symptoms", err)
		}
		r.PhotoPath = photo.String
		r.VoicePath = voice.String
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, storageErr("parse created_at", err)
		}
		r.SyncState = types.SyncStateUnsynced
		if synced == 1 {
			r.SyncState = types.SyncStateSynced
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate symptom reports", err)
	}

	return reports, nil
}

// MarkSymptomReportSynced sets a report's state to synced. A missing id is
// not an error: the report may already have been acknowledged by a
// concurrent drain.
func (s *SQLiteStore) MarkSymptomReportSynced(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE symptoms SET synced = 1 WHERE id = ?", id)
	if err != nil {
		return storageErr("mark symptom report synced", err)
	}
	return nil
}

// CountUnsyncedSymptomReports returns the pending count shown in the UI.
func (s *SQLiteStore) CountUnsyncedSymptomReports(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM symptoms WHERE synced = 0").Scan(&count)
	if err != nil {
		return 0, storageErr("count unsynced symptom reports", err)
	}
	return count, nil
}

// ReplaceRecords replaces the cached record set for a patient in one
// transaction. Readers either see the previous cache or the new one, never a
// half-applied state.
func (s *SQLiteStore) ReplaceRecords(ctx context.Context, patientID string, records []types.HealthRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin replace records", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE patient_id = ?", patientID); err != nil {
		return storageErr("clear cached records", err)
	}

	cachedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, patient_id, date, doctor_name, notes, prescription, type, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, patientID, r.Date, r.DoctorName, r.Notes, r.Prescription, string(r.Type), cachedAt)
		if err != nil {
			return storageErr("insert cached record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit replace records", err)
	}
	return nil
}

// ListRecords returns the cached records for a patient, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, patientID string) ([]types.HealthRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, doctor_name, notes, prescription, type
		FROM records WHERE patient_id = ? ORDER BY date DESC
	`, patientID)
	if err != nil {
		return nil, storageErr("query cached records", err)
	}
	defer rows.Close()

	var records []types.HealthRecord
	for rows.Next() {
		var r types.HealthRecord
		var recordType string
		if err := rows.Scan(&r.ID, &r.Date, &r.DoctorName, &r.Notes, &r.Prescription, &recordType); err != nil {
			return nil, storageErr("scan cached record", err)
		}
		r.Type = types.RecordType(recordType)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate cached records", err)
	}
	return records, nil
}

// ReplaceMedicines replaces the entire cached medicine availability set in
// one transaction.
func (s *SQLiteStore) ReplaceMedicines(ctx context.Context, medicines []types.Medicine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin replace medicines", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM medicines"); err != nil {
		return storageErr("clear cached medicines", err)
	}

	for _, m := range medicines {
		available := 0
		if m.Available {
			available = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO medicines (id, name, dosage, pharmacy, available, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
		`, m.ID, m.Name, m.Dosage, m.Pharmacy, available, m.LastUpdated.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return storageErr("insert cached medicine", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit replace medicines", err)
	}
	return nil
}

// ListMedicines returns the cached medicine availability set.
func (s *SQLiteStore) ListMedicines(ctx context.Context) ([]types.Medicine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, dosage, pharmacy, available, last_updated
		FROM medicines ORDER BY name ASC
	`)
	if err != nil {
		return nil, storageErr("query cached medicines", err)
	}
	defer rows.Close()

	var medicines []types.Medicine
	for rows.Next() {
		var (
			m           types.Medicine
			available   int
			lastUpdated string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Dosage, &m.Pharmacy, &available, &lastUpdated); err != nil {
			return nil, storageErr("scan cached medicine", err)
		}
		m.Available = available == 1
		m.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated)
		if err != nil {
			return nil, storageErr("parse last_updated", err)
		}
		medicines = append(medicines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate cached medicines", err)
	}
	return medicines, nil
}

// SaveConsultation caches the upcoming consultation for a patient.
// A nil consultation clears the cache (no upcoming consultation).
func (s *SQLiteStore) SaveConsultation(ctx context.Context, patientID string, c *types.Consultation) error {
	if c == nil {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM consultations WHERE patient_id = ?", patientID); err != nil {
			return storageErr("clear cached consultation", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO consultations (patient_id, id, scheduled_time, call_type, doctor_name, meeting_url, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, patientID, c.ID, c.ScheduledTime.UTC().Format(time.RFC3339Nano), string(c.CallType),
		c.DoctorName, nullable(c.MeetingURL), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return storageErr("save cached consultation", err)
	}
	return nil
}

// GetConsultation returns the cached upcoming consultation for a patient.
// Returns ErrNotFound when none is cached.
func (s *SQLiteStore) GetConsultation(ctx context.Context, patientID string) (*types.Consultation, error) {
	var (
		c             types.Consultation
		scheduledTime string
		callType      string
		meetingURL    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scheduled_time, call_type, doctor_name, meeting_url
		FROM consultations WHERE patient_id = ?
	`, patientID).Scan(&c.ID, &scheduledTime, &callType, &c.DoctorName, &meetingURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cached consultation for %s: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("query cached consultation", err)
	}

	c.ScheduledTime, err = time.Parse(time.RFC3339Nano, scheduledTime)
	if err != nil {
		return nil, storageErr("parse scheduled_time", err)
	}
	c.CallType = types.CallType(callType)
	c.MeetingURL = meetingURL.String
	return &c, nil
}

// SavePatient caches the patient profile. The device has a single active
// user, so saving replaces whatever was cached before.
func (s *SQLiteStore) SavePatient(ctx context.Context, p types.Patient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin save patient", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM patients"); err != nil {
		return storageErr("clear cached patient", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (id, name, phone, village, cached_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Phone, p.Village, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return storageErr("save cached patient", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit save patient", err)
	}
	return nil
}

// GetPatient returns the cached patient profile, or ErrNotFound when the
// device has never logged in.
func (s *SQLiteStore) GetPatient(ctx context.Context) (*types.Patient, error) {
	var p types.Patient
	err := s.db.QueryRowContext(ctx, "SELECT id, name, phone, village FROM patients LIMIT 1").
		Scan(&p.ID, &p.Name, &p.Phone, &p.Village)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cached patient: %w", ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("query cached patient", err)
	}
	return &p, nil
}

// Enqueue appends an outbound operation to the sync queue. The id is a ULID,
// so id order matches insertion order.
func (s *SQLiteStore) Enqueue(ctx context.Context, kind queue.Kind, payload json.RawMessage) (QueueEntry, error) {
	entry := QueueEntry{
		ID:        ulid.Make().String(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (id, type, data_json, created_at, attempts)
		VALUES (?, ?, ?, ?, 0)
	`, entry.ID, string(entry.Kind), string(entry.Payload), entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return QueueEntry{}, storageErr("enqueue", err)
	}

	return entry, nil
}

// ListQueue returns all pending queue entries in FIFO order.
func (s *SQLiteStore) ListQueue(ctx context.Context) ([]QueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, data_json, created_at, attempts
		FROM sync_queue ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, storageErr("query sync queue", err)
	}
	defer rows.Close()

	var entries []QueueEntry
	for rows.Next() {
		var (
			e         QueueEntry
			kind      string
			payload   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &kind, &payload, &createdAt, &e.Attempts); err != nil {
			return nil, storageErr("scan queue entry", err)
		}
		e.Kind = queue.Kind(kind)
		e.Payload = json.RawMessage(payload)
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, storageErr("parse queue created_at", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate sync queue", err)
	}
	return entries, nil
}

// Dequeue removes an acknowledged entry. A missing id is not an error.
func (s *SQLiteStore) Dequeue(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sync_queue WHERE id = ?", id); err != nil {
		return storageErr("dequeue", err)
	}
	return nil
}

// IncrementQueueAttempts bumps the advisory attempts counter after a failed
// delivery. Entries are never evicted on attempt count.
func (s *SQLiteStore) IncrementQueueAttempts(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE sync_queue SET attempts = attempts + 1 WHERE id = ?", id); err != nil {
		return storageErr("increment queue attempts", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
