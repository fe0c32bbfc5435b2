package demoapi

import (
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// SeedData returns the demo data set the server starts with: a handful of
// patients around Nabha with history, one upcoming consultation, and the
// local pharmacy stock.
func SeedData() ([]types.Patient, map[string][]types.HealthRecord, map[string]*types.Consultation, map[string][]types.Medicine) {
	patients := []types.Patient{
		{ID: "PT-1001", Name: "Gurpreet Singh", Phone: "+91-98760-11001", Village: "Bhadson"},
		{ID: "PT-1002", Name: "Harjit Kaur", Phone: "+91-98760-11002", Village: "Alhoran"},
		{ID: "PT-1003", Name: "Balwinder Singh", Phone: "+91-98760-11003", Village: "Dhanori"},
	}

	records := map[string][]types.HealthRecord{
		"PT-1001": {
			{
				ID:           "REC-2001",
				Date:         "2025-07-14",
				DoctorName:   "Dr. Simran Gill",
				Notes:        "Seasonal flu, advised rest and hydration.",
				Prescription: "Paracetamol 500mg twice daily for 3 days",
				Type:         types.RecordTypeConsultation,
			},
			{
				ID:           "REC-2002",
				Date:         "2025-08-02",
				DoctorName:   "Dr. Rajesh Verma",
				Notes:        "Follow-up, recovery on track.",
				Prescription: "Vitamin C supplement",
				Type:         types.RecordTypePrescription,
			},
		},
		"PT-1002": {
			{
				ID:           "REC-2003",
				Date:         "2025-06-20",
				DoctorName:   "Dr. Simran Gill",
				Notes:        "Mild hypertension, lifestyle changes discussed.",
				Prescription: "Amlodipine 5mg once daily",
				Type:         types.RecordTypeConsultation,
			},
		},
	}

	consultations := map[string]*types.Consultation{
		"PT-1001": {
			ID:            "CON-3001",
			ScheduledTime: time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute),
			CallType:      types.CallTypeVideo,
			DoctorName:    "Dr. Simran Gill",
			MeetingURL:    "https://meet.telemedicine-nabha.in/CON-3001",
		},
	}

	lastUpdated := time.Now().UTC().Truncate(time.Minute)
	medicines := map[string][]types.Medicine{
		"PT-1001": {
			{ID: "MED-4001", Name: "Paracetamol 500mg", Dosage: "500mg", Pharmacy: "Nabha Civil Hospital Pharmacy", Available: true, LastUpdated: lastUpdated},
			{ID: "MED-4002", Name: "Amoxicillin 250mg", Dosage: "250mg", Pharmacy: "Sharma Medical Store", Available: false, LastUpdated: lastUpdated},
			{ID: "MED-4003", Name: "ORS Sachets", Dosage: "1 sachet per litre", Pharmacy: "Nabha Civil Hospital Pharmacy", Available: true, LastUpdated: lastUpdated},
		},
		"PT-1002": {
			{ID: "MED-4004", Name: "Amlodipine 5mg", Dosage: "5mg", Pharmacy: "Sharma Medical Store", Available: true, LastUpdated: lastUpdated},
		},
	}

	return patients, records, consultations, medicines
}
