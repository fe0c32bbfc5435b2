// Package remote implements the typed request layer for the telemedicine
// service. Every call carries a fixed timeout and decodes the common
// {success, data, error} envelope; transport errors and application errors
// both surface as *Error so callers retry uniformly on the next sync pass.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// DefaultTimeout bounds every remote call independently.
const DefaultTimeout = 10 * time.Second

// Error is the uniform remote operation failure. Callers never distinguish
// transport errors from application errors; both mean "retry later".
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s: %s", e.Op, e.Message)
}

// envelope is the wire wrapper on every response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client is a typed client for the remote telemedicine service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client against the given base URL.
func NewClient(baseURL string) *Client {
	return NewClientWithTimeout(baseURL, DefaultTimeout)
}

// NewClientWithTimeout creates a Client with a non-default per-call timeout.
func NewClientWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the service is reachable. Used by the connectivity
// monitor; a captive portal answering with garbage counts as unreachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &Error{Op: "ping", Message: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: "ping", Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Error{Op: "ping", Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return nil
}

// GetPatient fetches a patient profile.
func (c *Client) GetPatient(ctx context.Context, patientID string) (*types.Patient, error) {
	return request[*types.Patient](ctx, c, "get patient", http.MethodGet, "/patients/"+patientID, nil)
}

// SubmitSymptoms submits a symptom report. The report id is client-generated
// and idempotent on the server side: resubmitting does not double-count.
func (c *Client) SubmitSymptoms(ctx context.Context, report types.SymptomReport) error {
	_, err := request[json.RawMessage](ctx, c, "submit symptoms", http.MethodPost, "/symptoms", report)
	return err
}

// GetRecords fetches the patient's consultation history.
func (c *Client) GetRecords(ctx context.Context, patientID string) ([]types.HealthRecord, error) {
	return request[[]types.HealthRecord](ctx, c, "get records", http.MethodGet, "/patients/"+patientID+"/records", nil)
}

// GetUpcomingConsultation fetches the next scheduled consultation.
// Returns nil when none is scheduled.
func (c *Client) GetUpcomingConsultation(ctx context.Context, patientID string) (*types.Consultation, error) {
	return request[*types.Consultation](ctx, c, "get consultation", http.MethodGet, "/patients/"+patientID+"/consultation", nil)
}

// GetMedicines fetches medicine availability for the patient's area.
func (c *Client) GetMedicines(ctx context.Context, patientID string) ([]types.Medicine, error) {
	return request[[]types.Medicine](ctx, c, "get medicines", http.MethodGet, "/patients/"+patientID+"/medicines", nil)
}

// SubmitFeedback submits a consultation rating.
func (c *Client) SubmitFeedback(ctx context.Context, feedback types.Feedback) error {
	_, err := request[json.RawMessage](ctx, c, "submit feedback", http.MethodPost, "/feedback", feedback)
	return err
}

// uploadResult is the payload of a successful file upload.
type uploadResult struct {
	URL string `json:"url"`
}

// UploadFile uploads a photo or voice attachment and returns its URL.
func (c *Client) UploadFile(ctx context.Context, uploadType types.UploadType, filePath, patientID string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	if err := writer.WriteField("patientId", patientID); err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	if err := writer.WriteField("type", string(uploadType)); err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	result, err := decode[uploadResult](c, "upload", req)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// request performs a JSON round trip and decodes the envelope's data field.
func request[T any](ctx context.Context, c *Client, op, method, path string, body any) (T, error) {
	var zero T

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, &Error{Op: op, Message: err.Error()}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return zero, &Error{Op: op, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return decode[T](c, op, req)
}

// decode executes the request and unwraps the response envelope.
func decode[T any](c *Client, op string, req *http.Request) (T, error) {
	var zero T

	resp, err := c.client.Do(req)
	if err != nil {
		return zero, &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &Error{Op: op, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, &Error{Op: op, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return zero, &Error{Op: op, Message: msg}
	}

	var result T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return zero, &Error{Op: op, Message: fmt.Sprintf("decode data: %v", err)}
		}
	}
	return result, nil
}
