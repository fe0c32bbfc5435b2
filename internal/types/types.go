package types

import "time"

// SyncState represents the delivery state of a locally captured item
type SyncState string

const (
	SyncStateUnsynced SyncState = "unsynced"
	SyncStateSynced   SyncState = "synced"
)

// SymptomCode identifies a symptom from the fixed checkbox list
type SymptomCode string

const (
	SymptomFever     SymptomCode = "fever"
	SymptomCough     SymptomCode = "cough"
	SymptomHeadache  SymptomCode = "headache"
	SymptomBodyPain  SymptomCode = "bodyPain"
	SymptomCold      SymptomCode = "cold"
	SymptomStomach   SymptomCode = "stomach"
	SymptomVomiting  SymptomCode = "vomiting"
	SymptomDiarrhea  SymptomCode = "diarrhea"
	SymptomBreathing SymptomCode = "breathing"
	SymptomOther     SymptomCode = "other"
)

// KnownSymptomCodes lists every code the symptom form can produce.
var KnownSymptomCodes = []SymptomCode{
	SymptomFever, SymptomCough, SymptomHeadache, SymptomBodyPain,
	SymptomCold, SymptomStomach, SymptomVomiting, SymptomDiarrhea,
	SymptomBreathing, SymptomOther,
}

// Patient represents the locally cached patient profile
type Patient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Village string `json:"village"`
}

// SymptomReport is a symptom submission captured on the device.
// The id is client-generated and idempotency-safe: submitting the same
// report twice must not double-count on the server. The report is never
// deleted locally before the server acknowledges it (at-least-once).
type SymptomReport struct {
	ID        string        `json:"id"`
	PatientID string        `json:"patientId"`
	Symptoms  []SymptomCode `json:"symptoms"`
	Notes     string        `json:"notes"`
	PhotoPath string        `json:"photoPath,omitempty"`
	VoicePath string        `json:"voicePath,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	SyncState SyncState     `json:"-"`
}

// RecordType classifies a health record entry
type RecordType string

const (
	RecordTypeConsultation RecordType = "consultation"
	RecordTypePrescription RecordType = "prescription"
)

// HealthRecord is a read-only mirror of a server-owned consultation record
type HealthRecord struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"`
	DoctorName   string     `json:"doctorName"`
	Notes        string     `json:"notes"`
	Prescription string     `json:"prescription"`
	Type         RecordType `json:"type"`
}

// CallType identifies how a consultation is conducted
type CallType string

const (
	CallTypeVideo CallType = "video"
	CallTypeAudio CallType = "audio"
)

// Consultation is the upcoming scheduled consultation, if any
type Consultation struct {
	ID            string    `json:"id"`
	ScheduledTime time.Time `json:"scheduledTime"`
	CallType      CallType  `json:"callType"`
	DoctorName    string    `json:"doctorName"`
	MeetingURL    string    `json:"meetingUrl,omitempty"`
}

// Medicine is a read-only mirror of pharmacy availability data
type Medicine struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Dosage      string    `json:"dosage"`
	Pharmacy    string    `json:"pharmacy"`
	Available   bool      `json:"available"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Feedback is a consultation rating submitted by the patient
type Feedback struct {
	PatientID string `json:"patientId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// UploadType identifies the kind of file attached to a symptom report
type UploadType string

const (
	UploadPhoto UploadType = "photo"
	UploadVoice UploadType = "voice"
)
