package mirror

import (
	"sync"
	"testing"
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

func TestMirror_ZeroValue(t *testing.T) {
	m := New()

	if m.Online() {
		t.Error("Online() = true before any probe, want false")
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", m.PendingCount())
	}
	if m.Patient() != nil {
		t.Error("Patient() != nil before login")
	}
	if m.Consultation() != nil {
		t.Error("Consultation() != nil before first sync")
	}
	if m.LastSync() != nil {
		t.Error("LastSync() != nil before first sync")
	}
}

func TestMirror_RoundTrips(t *testing.T) {
	m := New()

	m.SetOnline(true)
	if !m.Online() {
		t.Error("Online() = false after SetOnline(true)")
	}

	m.SetPendingCount(3)
	if m.PendingCount() != 3 {
		t.Errorf("PendingCount() = %d, want 3", m.PendingCount())
	}

	m.SetPatient(&types.Patient{ID: "PT-1001", Name: "Gurpreet Kaur"})
	if p := m.Patient(); p == nil || p.ID != "PT-1001" {
		t.Errorf("Patient() = %+v, want PT-1001", p)
	}

	m.SetRecords([]types.HealthRecord{{ID: "REC-1"}})
	if got := m.Records(); len(got) != 1 || got[0].ID != "REC-1" {
		t.Errorf("Records() = %+v, want REC-1", got)
	}

	m.SetConsultation(&types.Consultation{ID: "CON-1"})
	if c := m.Consultation(); c == nil || c.ID != "CON-1" {
		t.Errorf("Consultation() = %+v, want CON-1", c)
	}
	m.SetConsultation(nil)
	if m.Consultation() != nil {
		t.Error("Consultation() != nil after clearing")
	}

	m.SetMedicines([]types.Medicine{{ID: "MED-1"}})
	if got := m.Medicines(); len(got) != 1 || got[0].ID != "MED-1" {
		t.Errorf("Medicines() = %+v, want MED-1", got)
	}

	now := time.Now()
	m.SetLastSync(now)
	if ts := m.LastSync(); ts == nil || !ts.Equal(now) {
		t.Errorf("LastSync() = %v, want %v", ts, now)
	}
}

// Exercised under -race: the monitor and orchestrator write concurrently
// while UI surfaces read.
func TestMirror_ConcurrentAccess(t *testing.T) {
	m := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.SetOnline(n%2 == 0)
				m.SetPendingCount(j)
				m.SetLastSync(time.Now())
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Online()
				m.PendingCount()
				m.LastSync()
			}
		}()
	}
	wg.Wait()
}
