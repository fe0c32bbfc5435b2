// Package demoapi implements the remote telemedicine service contract over
// seeded in-memory data. It exists so the device agent has something real to
// sync against during development and in end-to-end tests; the production
// service only has to honor the same wire contract.
package demoapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
	"github.com/rithika5656/Telemedicine-nabha/internal/validation"
)

// demoOTP is the stubbed credential: any seeded phone number plus this OTP
// logs in. Real credential checking is outside this repo.
const demoOTP = "0000"

// maxUploadBytes caps attachment size; symptom photos are compressed
// client-side for low-bandwidth links.
const maxUploadBytes = 10 << 20

// Handler serves the demo telemedicine API.
type Handler struct {
	mu            sync.Mutex
	patients      map[string]types.Patient
	records       map[string][]types.HealthRecord
	consultations map[string]*types.Consultation
	medicines     map[string][]types.Medicine
	symptoms      map[string]types.SymptomReport // keyed by client id for idempotency
	feedback      []types.Feedback
	uploadDir     string
}

// NewHandler creates a Handler populated with SeedData. Uploaded files land
// in uploadDir.
func NewHandler(uploadDir string) *Handler {
	patients, records, consultations, medicines := SeedData()

	h := &Handler{
		patients:      make(map[string]types.Patient, len(patients)),
		records:       records,
		consultations: consultations,
		medicines:     medicines,
		symptoms:      make(map[string]types.SymptomReport),
		uploadDir:     uploadDir,
	}
	for _, p := range patients {
		h.patients[p.ID] = p
	}
	return h
}

// Health answers connectivity probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// loginRequest is the stubbed credential check payload.
type loginRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Login handles POST /auth/login. Stub: matches a seeded phone number
// against the demo OTP and returns the patient profile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.OTP == demoOTP {
		for _, p := range h.patients {
			if p.Phone == req.Phone {
				WriteData(w, http.StatusOK, p)
				return
			}
		}
	}
	WriteError(w, http.StatusUnauthorized, "invalid phone or OTP")
}

// GetPatient handles GET /patients/{id}.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	patient, ok := h.patients[id]
	if !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}
	WriteData(w, http.StatusOK, patient)
}

// SubmitSymptoms handles POST /symptoms. Submissions are idempotent on the
// client-generated report id: a retried delivery of an already accepted
// report is acknowledged without double-counting.
func (h *Handler) SubmitSymptoms(w http.ResponseWriter, r *http.Request) {
	var report types.SymptomReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if errs := validation.ValidateSymptomSubmission(report); len(errs) > 0 {
		WriteError(w, http.StatusUnprocessableEntity, errs[0].Error())
		return
	}
	if report.ID == "" {
		WriteError(w, http.StatusUnprocessableEntity, "id: must not be empty")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.patients[report.PatientID]; !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}

	if _, exists := h.symptoms[report.ID]; !exists {
		h.symptoms[report.ID] = report
	}
	WriteData(w, http.StatusOK, map[string]string{"id": report.ID})
}

// GetRecords handles GET /patients/{id}/records.
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.patients[id]; !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}

	records := h.records[id]
	if records == nil {
		records = []types.HealthRecord{}
	}
	WriteData(w, http.StatusOK, records)
}

// GetConsultation handles GET /patients/{id}/consultation. A patient with
// nothing scheduled gets a successful envelope with null data.
func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.patients[id]; !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}
	WriteData(w, http.StatusOK, h.consultations[id])
}

// GetMedicines handles GET /patients/{id}/medicines.
func (h *Handler) GetMedicines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.patients[id]; !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}

	medicines := h.medicines[id]
	if medicines == nil {
		medicines = []types.Medicine{}
	}
	WriteData(w, http.StatusOK, medicines)
}

// SubmitFeedback handles POST /feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback types.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if errs := validation.ValidateFeedback(feedback); len(errs) > 0 {
		WriteError(w, http.StatusUnprocessableEntity, errs[0].Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.patients[feedback.PatientID]; !ok {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}

	h.feedback = append(h.feedback, feedback)
	WriteData(w, http.StatusOK, nil)
}

// Upload handles POST /upload: multipart file plus patientId and type
// fields, answered with the stored file's URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	patientID := r.FormValue("patientId")
	uploadType := types.UploadType(r.FormValue("type"))
	if uploadType != types.UploadPhoto && uploadType != types.UploadVoice {
		WriteError(w, http.StatusUnprocessableEntity, "type: must be photo or voice")
		return
	}

	h.mu.Lock()
	_, knownPatient := h.patients[patientID]
	h.mu.Unlock()
	if !knownPatient {
		WriteError(w, http.StatusNotFound, "patient not found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file: missing")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		WriteError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	name := fmt.Sprintf("%s-%s-%s", patientID, uploadType, filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		WriteError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	WriteData(w, http.StatusOK, map[string]string{"url": "/uploads/" + name})
}

// SymptomCount reports how many distinct symptom reports the server has
// accepted. Used by tests to verify idempotency.
func (h *Handler) SymptomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.symptoms)
}

// FeedbackCount reports how many feedback submissions the server has
// accepted.
func (h *Handler) FeedbackCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.feedback)
}
