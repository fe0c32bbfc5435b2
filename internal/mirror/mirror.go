// Package mirror holds the in-memory view of device state read by the UI
// surfaces: connectivity flag, pending sync count, and the cached server
// data. It replaces module-level globals with an explicit object whose
// lifecycle is tied to application startup.
package mirror

import (
	"sync"
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// Mirror is written by the connectivity monitor and the sync orchestrator
// and read by the UI. All methods are safe for concurrent use.
type Mirror struct {
	mu sync.RWMutex

	online       bool
	pendingCount int
	patient      *types.Patient
	records      []types.HealthRecord
	consultation *types.Consultation
	medicines    []types.Medicine
	lastSync     *time.Time
}

// New creates an empty Mirror.
func New() *Mirror {
	return &Mirror{}
}

// SetOnline records the current connectivity state.
func (m *Mirror) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

// Online reports whether the remote service is currently reachable.
func (m *Mirror) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetPendingCount records the number of items awaiting sync.
func (m *Mirror) SetPendingCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingCount = n
}

// PendingCount returns the "N items pending sync" counter shown in the UI.
func (m *Mirror) PendingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingCount
}

// SetPatient records the active patient identity.
func (m *Mirror) SetPatient(p *types.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patient = p
}

// Patient returns the active patient identity, or nil before login.
func (m *Mirror) Patient() *types.Patient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.patient
}

// SetRecords replaces the displayed consultation history.
func (m *Mirror) SetRecords(records []types.HealthRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// Records returns the displayed consultation history.
func (m *Mirror) Records() []types.HealthRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// SetConsultation replaces the displayed upcoming consultation (nil when none).
func (m *Mirror) SetConsultation(c *types.Consultation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consultation = c
}

// Consultation returns the displayed upcoming consultation, or nil.
func (m *Mirror) Consultation() *types.Consultation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consultation
}

// SetMedicines replaces the displayed medicine availability list.
func (m *Mirror) SetMedicines(medicines []types.Medicine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medicines = medicines
}

// Medicines returns the displayed medicine availability list.
func (m *Mirror) Medicines() []types.Medicine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.medicines
}

// SetLastSync records the completion time of the last sync pass.
// Display-only; staleness is never enforced.
func (m *Mirror) SetLastSync(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSync = &t
}

// LastSync returns the completion time of the last sync pass, or nil.
func (m *Mirror) LastSync() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}
